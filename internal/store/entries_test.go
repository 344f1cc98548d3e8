package store

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

func TestUpsertNote_GeneratesID(t *testing.T) {
	s := setupStore(t, WithClock(func() time.Time { return fixedTime }))

	res, err := s.UpsertNote(record.Record{"texto": "hola"})
	require.NoError(t, err)
	assert.Equal(t, "1709649000123", res.ID)

	notes := s.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "1709649000123", notes[0].String("id"))
	assert.Equal(t, "2024-03-05T14:30:00.123Z", notes[0].String(record.FieldCreated))
}

func TestUpsertNote_SameMillisecondAppends(t *testing.T) {
	s := setupStore(t, WithClock(func() time.Time { return fixedTime }))

	first, err := s.UpsertNote(record.Record{"texto": "primera", "autor": "ana"})
	require.NoError(t, err)
	second, err := s.UpsertNote(record.Record{"texto": "segunda"})
	require.NoError(t, err)

	assert.Equal(t, "1709649000123", first.ID)
	assert.Equal(t, "1709649000124", second.ID)
	assert.False(t, second.WasUpdate)

	notes := s.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, "primera", notes[0].String("texto"))
	assert.Equal(t, "ana", notes[0].String("autor"))
	assert.Equal(t, "segunda", notes[1].String("texto"))
	assert.False(t, notes[1].Has("autor"))
}

func TestUpsertNote_GivenIDMerges(t *testing.T) {
	s := setupStore(t, WithClock(func() time.Time { return fixedTime }))

	first, err := s.UpsertNote(record.Record{"texto": "uno", "color": "rojo"})
	require.NoError(t, err)
	second, err := s.UpsertNote(record.Record{"id": first.ID, "texto": "dos"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.WasUpdate)

	notes := s.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "dos", notes[0].String("texto"))
	assert.Equal(t, "rojo", notes[0].String("color"))
}

func TestUpsertHistory_SameMillisecondAppends(t *testing.T) {
	s := setupStore(t, WithClock(func() time.Time { return fixedTime }))

	first, err := s.UpsertHistory(record.Record{"correo": "a@b.c", "sim": "8950"})
	require.NoError(t, err)
	second, err := s.UpsertHistory(record.Record{"correo": "a@b.c", "sim": "8951"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	all := s.History("a@b.c")
	require.Len(t, all, 2)
	assert.Equal(t, "8950", all[0].String("sim"))
	assert.Equal(t, "8951", all[1].String("sim"))
}

func TestUpsertNote_DistinctMillisecondsAppend(t *testing.T) {
	s := setupStore(t, WithClock(tickingClock()))

	_, err := s.UpsertNote(record.Record{"texto": "uno"})
	require.NoError(t, err)
	_, err = s.UpsertNote(record.Record{"texto": "dos"})
	require.NoError(t, err)

	assert.Len(t, s.Notes(), 2)
}

func TestUpdateNote(t *testing.T) {
	s := setupStore(t, WithClock(tickingClock()))
	res, err := s.UpsertNote(record.Record{"texto": "uno", "color": "rojo"})
	require.NoError(t, err)

	_, err = s.UpdateNote(res.ID, record.Record{"id": "other", "texto": "editado"})
	require.NoError(t, err)

	notes := s.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, res.ID, notes[0].String("id"), "id cannot be rewritten")
	assert.Equal(t, "editado", notes[0].String("texto"))
	assert.Equal(t, "rojo", notes[0].String("color"))
	assert.True(t, notes[0].Has(record.FieldCreated))
	assert.True(t, notes[0].Has(record.FieldUpdated))
}

func TestUpdateNote_KeepsCreation(t *testing.T) {
	s := setupStore(t, WithClock(tickingClock()))
	res, err := s.UpsertNote(record.Record{"texto": "uno"})
	require.NoError(t, err)
	created := s.Notes()[0].String(record.FieldCreated)

	_, err = s.UpdateNote(res.ID, record.Record{record.FieldCreated: "1999-01-01T00:00:00.000Z", "texto": "dos"})
	require.NoError(t, err)

	note := s.Notes()[0]
	assert.Equal(t, created, note.String(record.FieldCreated))
	assert.Equal(t, "dos", note.String("texto"))
}

func TestUpdateNote_NotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.UpdateNote("404", record.Record{"texto": "x"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = s.UpdateNote("", record.Record{"texto": "x"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRemoveNote_MissingLeavesFileUntouched(t *testing.T) {
	s := setupStore(t)
	_, err := s.UpsertNote(record.Record{"id": "1", "texto": "uno"})
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path(record.Notas))
	require.NoError(t, err)

	_, err = s.RemoveNote("2")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	after, err := os.ReadFile(s.Path(record.Notas))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	res, err := s.RemoveNote("1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)
	assert.Empty(t, s.Notes())
}

func TestRemoveNote_MatchesNumericIDs(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, os.WriteFile(s.Path(record.Notas), []byte(`[{"id": 1709649000123, "texto": "legacy"}]`), 0o644))

	_, err := s.RemoveNote("1709649000123")
	require.NoError(t, err)
	assert.Empty(t, s.Notes())
}

func TestUpsertHistory_StampsDelivery(t *testing.T) {
	s := setupStore(t, WithClock(tickingClock()))

	_, err := s.UpsertHistory(record.Record{"correo": "a@b.c", "sim": "8950"})
	require.NoError(t, err)
	_, err = s.UpsertHistory(record.Record{"correo": "x@y.z", "fechaEntrega": "2023-01-01T00:00:00.000Z"})
	require.NoError(t, err)

	all := s.History("")
	require.Len(t, all, 2)
	assert.Equal(t, "2024-03-05T14:30:00.125Z", all[0].String(record.FieldDelivery))
	assert.Equal(t, "2023-01-01T00:00:00.000Z", all[1].String(record.FieldDelivery))

	mine := s.History("a@b.c")
	require.Len(t, mine, 1)
	assert.Equal(t, "8950", mine[0].String("sim"))
}

func TestInventory_CRUD(t *testing.T) {
	s := setupStore(t)

	res, err := s.UpsertItem(record.Record{"nombre": "Router", "categoria": "Red"})
	require.NoError(t, err)
	assert.Len(t, res.ID, 26, "ULID")

	_, err = s.UpdateItem(res.ID, record.Record{"estado": "prestado"})
	require.NoError(t, err)

	items := s.Inventory()
	require.Len(t, items, 1)
	assert.Equal(t, "prestado", items[0].String("estado"))
	assert.Equal(t, "Router", items[0].String("nombre"))

	_, err = s.RemoveItem(res.ID)
	require.NoError(t, err)
	assert.Empty(t, s.Inventory())

	_, err = s.RemoveItem(res.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestFilterItems(t *testing.T) {
	s := setupStore(t)
	for _, item := range []record.Record{
		{"nombre": "Router TP-Link", "categoria": "Red"},
		{"nombre": "Switch", "categoria": "red"},
		{"nombre": "Monitor", "categoria": "Pantallas"},
	} {
		_, err := s.UpsertItem(item)
		require.NoError(t, err)
	}

	assert.Len(t, s.FilterItems(map[string]string{"categoria": "RED"}), 2)
	assert.Len(t, s.FilterItems(map[string]string{"categoria": "red", "nombre": "tp"}), 1)
	assert.Len(t, s.FilterItems(map[string]string{"categoria": " "}), 3, "blank filters are ignored")
	assert.Empty(t, s.FilterItems(map[string]string{"marca": "x"}))
}

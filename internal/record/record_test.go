package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_String(t *testing.T) {
	r := Record{"s": "x", "n": 12.0, "f": 1.5, "b": true, "null": nil}

	assert.Equal(t, "x", r.String("s"))
	assert.Equal(t, "12", r.String("n"))
	assert.Equal(t, "1.5", r.String("f"))
	assert.Equal(t, "true", r.String("b"))
	assert.Equal(t, "", r.String("null"))
	assert.Equal(t, "", r.String("missing"))
}

func TestRecord_Has(t *testing.T) {
	r := Record{"correo": "a@b.c", "blank": "   "}

	assert.True(t, r.Has("correo"))
	assert.False(t, r.Has("blank"))
	assert.False(t, r.Has("missing"))
}

func TestMerge_ShallowOverwrite(t *testing.T) {
	old := Record{"correo": "a@b.c", "nombre": "Ana", "usuario": "ana1"}
	incoming := Record{"correo": "a@b.c", "nombre": "Ana María"}

	merged := Merge(old, incoming)

	assert.Equal(t, "Ana María", merged["nombre"])
	assert.Equal(t, "ana1", merged["usuario"])
	assert.Equal(t, "Ana", old["nombre"], "Merge must not mutate its inputs")
}

func TestClone_Nil(t *testing.T) {
	var r Record
	c := r.Clone()
	require.NotNil(t, c)
	assert.Empty(t, c)
}

func TestFromAny(t *testing.T) {
	r, ok := FromAny(map[string]any{"a": 1.0})
	require.True(t, ok)
	assert.Equal(t, 1.0, r["a"])

	_, ok = FromAny([]any{})
	assert.False(t, ok)

	_, ok = FromAny("text")
	assert.False(t, ok)
}

func TestFormatTime_UTCMillis(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, loc)

	assert.Equal(t, "2024-01-02T09:04:05.006Z", FormatTime(ts))
}

func TestAgentsDocument_DefaultShape(t *testing.T) {
	data, err := json.Marshal(Agents.Default())
	require.NoError(t, err)
	assert.JSONEq(t, `{"defaultAgent": null, "agents": []}`, string(data))
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("historial")
	require.True(t, ok)
	assert.Equal(t, "historial_entregas.json", c.File)

	_, ok = Lookup("unknown")
	assert.False(t, ok)
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/auth"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/config"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/db"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/document"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/ops"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/store"
)

var fixedNow = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

type stubRasterizer struct{}

func (stubRasterizer) Rasterize(context.Context, string, document.PrintOptions) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

// setupDeps wires a store and a credential database under temp dirs.
func setupDeps(t *testing.T) (*ops.Deps, string) {
	t.Helper()
	dataDir := t.TempDir()
	outDir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.DataDir = dataDir
	cfg.OutputDir = outDir

	database, err := db.Init(dataDir)
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	st := store.New(dataDir, zerolog.Nop(), store.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, st.Init())

	chooser := document.DirChooser{Dir: outDir}
	return &ops.Deps{
		Store:    st,
		Auth:     auth.NewDBAuthenticator(database).WithCost(bcrypt.MinCost),
		Renderer: document.NewRenderer(stubRasterizer{}, chooser),
		Chooser:  chooser,
		Config:   cfg,
		Log:      zerolog.Nop(),
		Now:      func() time.Time { return fixedNow },
	}, outDir
}

// run executes the CLI and returns stdout.
func run(t *testing.T, deps *ops.Deps, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(deps)
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(append([]string{"extractorsim"}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, deps *ops.Deps, args ...string) string {
	t.Helper()
	out, err := run(t, deps, args...)
	require.NoError(t, err, "args: %v", args)
	return out
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name        string
		input       []string
		expected    map[string]string
		expectError bool
	}{
		{name: "empty", input: nil, expected: map[string]string{}},
		{name: "single", input: []string{"modelo=galaxy"}, expected: map[string]string{"modelo": "galaxy"}},
		{name: "empty value kept", input: []string{"estado="}, expected: map[string]string{"estado": ""}},
		{name: "value with equals", input: []string{"nota=a=b"}, expected: map[string]string{"nota": "a=b"}},
		{name: "missing equals", input: []string{"modelo"}, expectError: true},
		{name: "missing key", input: []string{"=x"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFilters(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCLIAgents(t *testing.T) {
	deps, _ := setupDeps(t)

	out := mustRun(t, deps, "agents", "add", "--correo", "a@x.com", "--nombre", "Ana")
	assert.Contains(t, out, "Agente agregado")

	out = mustRun(t, deps, "agents", "add", "--data", `{"correo": "a@x.com", "zona": "Norte",}`)
	assert.Contains(t, out, "Agente actualizado")

	mustRun(t, deps, "agents", "add", "--correo", "b@x.com")
	mustRun(t, deps, "agents", "default", "b@x.com")

	var agents []map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "agents", "list")), &agents))
	require.Len(t, agents, 2)
	assert.Equal(t, "b@x.com", agents[0]["correo"])
	assert.Equal(t, "Norte", agents[1]["zona"])
	assert.Equal(t, "Ana", agents[1]["nombre"])

	mustRun(t, deps, "agents", "remove", "a@x.com")
	_, err := run(t, deps, "agents", "remove", "a@x.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[NOT_FOUND]")
}

func TestCLIAgents_InvalidData(t *testing.T) {
	deps, _ := setupDeps(t)
	_, err := run(t, deps, "agents", "add", "--data", `{"correo":`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[VALIDATION_ERROR]")
}

func TestCLITerminales(t *testing.T) {
	deps, _ := setupDeps(t)

	mustRun(t, deps, "terminales", "add", "--agencia", "Centro", "--marca", "Acme", "--terminal", "X1", "--disponible", "3")

	file := filepath.Join(t.TempDir(), "terminales.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		// spreadsheet export
		{"agencia": "centro", "marca": "acme", "terminal": "x1", "disponible": 5},
		{"agencia": "Norte", "marca": "Acme", "terminal": "X2"},
	]`), 0o644))

	var bulk ops.BulkOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "terminales", "import", file)), &bulk))
	assert.Equal(t, 1, bulk.Nuevos)
	assert.Equal(t, 1, bulk.Actualizados)

	mustRun(t, deps, "terminales", "remove", "--agencia", "norte", "--marca", "ACME", "--terminal", "x2")

	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "terminales", "list")), &list))
	require.Len(t, list, 1)
	assert.EqualValues(t, 5, list[0]["disponible"])

	_, err := run(t, deps, "terminales", "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[VALIDATION_ERROR]")
}

func TestCLINotas(t *testing.T) {
	deps, _ := setupDeps(t)

	var added ops.MessageOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "notas", "add", "--texto", "hola")), &added))
	assert.Equal(t, "1709649000000", added.ID)

	mustRun(t, deps, "notas", "update", added.ID, "--texto", "adiós")
	assert.Contains(t, mustRun(t, deps, "notas", "list"), "adiós")

	mustRun(t, deps, "notas", "remove", added.ID)
	assert.Equal(t, "[]\n", mustRun(t, deps, "notas", "list"))
}

func TestCLIHistorial(t *testing.T) {
	deps, outDir := setupDeps(t)

	mustRun(t, deps, "agents", "add", "--correo", "a@x.com", "--nombre", "Ana")
	mustRun(t, deps, "historial", "add", "--correo", "a@x.com", "--sim", "8950", "--usuario", "u1")
	mustRun(t, deps, "historial", "add", "--correo", "b@x.com", "--sim", "8951")

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "historial", "list", "--correo", "a@x.com")), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "8950", entries[0]["sim"])

	var pdf ops.HistoryPDFOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "historial", "pdf", "--correo", "a@x.com")), &pdf))
	assert.Equal(t, filepath.Join(outDir, "Historial-a_x.com-2024-03-05.pdf"), pdf.Path)
	assert.FileExists(t, pdf.Path)

	_, err := run(t, deps, "historial", "pdf", "--correo", "a@x.com", "--page-size", "B9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[VALIDATION_ERROR]")
}

func TestCLIInventario(t *testing.T) {
	deps, _ := setupDeps(t)

	var added ops.MessageOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "inventario", "add", "--data", `{"modelo":"Galaxy A15","estado":"Disponible"}`)), &added))
	require.NotEmpty(t, added.ID)
	mustRun(t, deps, "inventario", "add", "--data", `{"modelo":"Moto G","estado":"Asignado"}`)

	var filtered []map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "inventario", "filter", "-w", "modelo=GALAXY")), &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, added.ID, filtered[0]["id"])

	mustRun(t, deps, "inventario", "update", added.ID, "--data", `{"estado":"Asignado"}`)
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "inventario", "filter", "-w", "estado=asignado")), &filtered))
	assert.Len(t, filtered, 2)

	mustRun(t, deps, "inventario", "remove", added.ID)
	_, err := run(t, deps, "inventario", "remove", added.ID)
	require.Error(t, err)
}

func TestCLIExport(t *testing.T) {
	deps, outDir := setupDeps(t)
	mustRun(t, deps, "agents", "add", "--correo", "a@x.com")

	var out ops.ExportOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "export", "agents")), &out))
	assert.Equal(t, filepath.Join(outDir, "agentes-2024-03-05.json"), out.Path)

	explicit := filepath.Join(t.TempDir(), "mis-agentes.json")
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "export", "agents", "--out", explicit)), &out))
	assert.Equal(t, explicit, out.Path)
	data, err := os.ReadFile(explicit)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"defaultAgent": null`)

	_, err = run(t, deps, "export", "clientes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tipo de exportación no válido")
}

func TestCLISim(t *testing.T) {
	deps, outDir := setupDeps(t)

	payload := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(payload, []byte(`{"agente":"Ana","usuario":"u1","fecha":"2024-03-05","contenido":"SIM 8950"}`), 0o644))

	var out ops.GenerateSIMOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "sim", "--payload", payload, "--usuario", "u2")), &out))
	assert.True(t, out.OK)
	assert.Equal(t, filepath.Join(outDir, "SIM-u2-2024-03-05.pdf"), out.Path)
	assert.FileExists(t, out.Path)

	_, err := run(t, deps, "sim", "--usuario", "u1", "--out", filepath.Join(outDir, "recibo.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[VALIDATION_ERROR]")
}

func TestCLISupervisor(t *testing.T) {
	deps, _ := setupDeps(t)

	mustRun(t, deps, "supervisor", "enroll", "--email", "Jefa@X.com", "--nombre", "Jefa", "--password", "secret123")

	out := mustRun(t, deps, "supervisor", "auth", "--email", "jefa@x.com", "--password", "secret123")
	assert.Contains(t, out, `"nombre": "Jefa"`)

	_, err := run(t, deps, "supervisor", "auth", "--email", "jefa@x.com", "--password", "wrong-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[UNAUTHORIZED]")

	assert.Contains(t, mustRun(t, deps, "supervisor", "check", "jefa@x.com"), "true")

	var listed ops.SupervisorListOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "supervisor", "list")), &listed))
	assert.Equal(t, []auth.Supervisor{{Email: "Jefa@X.com", Nombre: "Jefa"}}, listed.Supervisors)

	mustRun(t, deps, "supervisor", "revoke", "jefa@x.com")
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "supervisor", "list")), &listed))
	assert.Empty(t, listed.Supervisors)
	assert.Contains(t, mustRun(t, deps, "supervisor", "check", "jefa@x.com"), "false")

	_, err = run(t, deps, "supervisor", "enroll", "--email", "otro@x.com", "--password", "corta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[VALIDATION_ERROR]")
}

func TestCLIInfo(t *testing.T) {
	deps, _ := setupDeps(t)
	var info ops.InfoOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "info")), &info))
	assert.Equal(t, ops.AppName, info.Name)
	assert.Equal(t, deps.Store.Dir(), info.DataDir)
}

func TestCLIHelpWithoutDeps(t *testing.T) {
	out, err := run(t, nil, "--help")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "extractorsim"))
}

func TestIsCharDevice(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	assert.False(t, isCharDevice(f), "regular file")

	require.NoError(t, f.Close())
	assert.False(t, isCharDevice(f), "closed file")

	var missing *os.File
	assert.False(t, isCharDevice(missing), "nil file")
}

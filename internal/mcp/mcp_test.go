package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/auth"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/config"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/document"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/ops"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/store"
)

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, email, password string) (*auth.Supervisor, error) {
	if email == "jefa@x.com" && password == "secret123" {
		return &auth.Supervisor{Email: email, Nombre: "Jefa"}, nil
	}
	return nil, errors.NewUnauthorized("invalid credentials")
}

func (stubAuth) IsSupervisor(_ context.Context, email string) (bool, error) {
	return email == "jefa@x.com", nil
}

type stubRasterizer struct{}

func (stubRasterizer) Rasterize(_ context.Context, _ string, _ document.PrintOptions) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

// testSetup creates deps over temporary directories.
func testSetup(t *testing.T) (*ops.Deps, string) {
	t.Helper()

	dataDir := t.TempDir()
	outDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dataDir
	cfg.OutputDir = outDir

	return &ops.Deps{
		Store:    store.New(dataDir, zerolog.Nop()),
		Auth:     stubAuth{},
		Renderer: document.NewRenderer(stubRasterizer{}, document.DirChooser{Dir: outDir}),
		Chooser:  document.DirChooser{Dir: outDir},
		Config:   cfg,
		Log:      zerolog.Nop(),
	}, outDir
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func decodeResult[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	var out T
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	return out
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, code string) {
	t.Helper()
	if !result.IsError {
		t.Fatalf("expected error result, got success: %s", resultText(t, result))
	}
	failure := decodeResult[ops.FailureOutput](t, result)
	if failure.OK {
		t.Error("failure ok = true")
	}
	if failure.Code != code {
		t.Errorf("code = %q, want %q (%s)", failure.Code, code, failure.Error)
	}
}

func call(t *testing.T, handler server.ToolHandlerFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := handler(context.Background(), makeRequest(args))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return result
}

func TestHandleSupervisorAuth(t *testing.T) {
	deps, _ := testSetup(t)
	h := NewHandlers(deps)

	result := call(t, h.HandleSupervisorAuth, map[string]any{"email": "jefa@x.com", "password": "secret123"})
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}
	out := decodeResult[ops.SupervisorAuthOutput](t, result)
	if !out.OK || out.Nombre != "Jefa" {
		t.Errorf("out = %+v", out)
	}

	result = call(t, h.HandleSupervisorAuth, map[string]any{"email": "jefa@x.com", "password": "bad"})
	assertErrorCode(t, result, "UNAUTHORIZED")

	result = call(t, h.HandleSupervisorCheck, map[string]any{"email": "otro@x.com"})
	check := decodeResult[ops.SupervisorCheckOutput](t, result)
	if check.IsSupervisor {
		t.Error("otro@x.com should not be a supervisor")
	}
}

func TestHandleAgents(t *testing.T) {
	deps, _ := testSetup(t)
	h := NewHandlers(deps)

	tests := []struct {
		name      string
		handler   server.ToolHandlerFunc
		args      map[string]any
		errorCode string
	}{
		{"add", h.HandleAgentsAdd, map[string]any{"agent": map[string]any{"correo": "a@x.com", "nombre": "A"}}, ""},
		{"add second", h.HandleAgentsAdd, map[string]any{"agent": map[string]any{"correo": "b@x.com"}}, ""},
		{"add without correo", h.HandleAgentsAdd, map[string]any{"agent": map[string]any{"nombre": "X"}}, "VALIDATION_ERROR"},
		{"add with wrong type", h.HandleAgentsAdd, map[string]any{"agent": "a@x.com"}, "VALIDATION_ERROR"},
		{"set default", h.HandleAgentsSetDefault, map[string]any{"correo": "b@x.com"}, ""},
		{"set unknown default", h.HandleAgentsSetDefault, map[string]any{"correo": "z@x.com"}, "NOT_FOUND"},
		{"remove missing", h.HandleAgentsRemove, map[string]any{"correo": "z@x.com"}, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, tt.handler, tt.args)
			if tt.errorCode != "" {
				assertErrorCode(t, result, tt.errorCode)
				return
			}
			if result.IsError {
				t.Fatalf("unexpected error: %s", resultText(t, result))
			}
		})
	}

	list := decodeResult[[]map[string]any](t, call(t, h.HandleAgentsList, nil))
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0]["correo"] != "b@x.com" {
		t.Errorf("default agent should come first, got %v", list[0]["correo"])
	}
}

func TestHandleTerminalesBulkAdd(t *testing.T) {
	deps, _ := testSetup(t)
	h := NewHandlers(deps)

	result := call(t, h.HandleTerminalesBulkAdd, map[string]any{
		"terminales": []any{
			map[string]any{"agencia": "A", "marca": "B", "terminal": "C", "disponible": "4"},
			map[string]any{"agencia": "a", "marca": "b", "terminal": "c"},
		},
	})
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}
	out := decodeResult[ops.BulkOutput](t, result)
	if out.Count != 2 || out.Nuevos != 1 || out.Actualizados != 1 {
		t.Errorf("out = %+v", out)
	}

	result = call(t, h.HandleTerminalesBulkAdd, map[string]any{"terminales": "nope"})
	assertErrorCode(t, result, "VALIDATION_ERROR")

	list := decodeResult[[]map[string]any](t, call(t, h.HandleTerminalesList, nil))
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}
}

func TestHandleNotas(t *testing.T) {
	deps, _ := testSetup(t)
	h := NewHandlers(deps)

	added := decodeResult[ops.MessageOutput](t, call(t, h.HandleNotasAdd, map[string]any{"nota": map[string]any{"texto": "hola"}}))
	if added.ID == "" {
		t.Fatal("expected generated id")
	}

	result := call(t, h.HandleNotasUpdate, map[string]any{"id": added.ID, "nota": map[string]any{"texto": "editada"}})
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}

	assertErrorCode(t, call(t, h.HandleNotasUpdate, map[string]any{"id": "404", "nota": map[string]any{}}), "NOT_FOUND")
	assertErrorCode(t, call(t, h.HandleNotasRemove, map[string]any{"id": "404"}), "NOT_FOUND")

	result = call(t, h.HandleNotasRemove, map[string]any{"id": added.ID})
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}
}

func TestHandleHistorialPDF(t *testing.T) {
	deps, outDir := testSetup(t)
	h := NewHandlers(deps)

	assertErrorCode(t, call(t, h.HandleHistorialPDF, map[string]any{"correo": "a@x.com"}), "NOT_FOUND")

	call(t, h.HandleHistorialAdd, map[string]any{"entrega": map[string]any{"correo": "a@x.com", "sim": "1"}})
	call(t, h.HandleHistorialAdd, map[string]any{"entrega": map[string]any{"correo": "b@x.com", "sim": "2"}})

	filtered := decodeResult[[]map[string]any](t, call(t, h.HandleHistorialList, map[string]any{"correo": "a@x.com"}))
	if len(filtered) != 1 {
		t.Errorf("len(filtered) = %d, want 1", len(filtered))
	}

	dest := filepath.Join(outDir, "reporte.pdf")
	out := decodeResult[ops.HistoryPDFOutput](t, call(t, h.HandleHistorialPDF, map[string]any{"correo": "a@x.com", "savePath": dest}))
	if out.Path != dest || out.Registros != 1 {
		t.Errorf("out = %+v", out)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("pdf not written: %v", err)
	}
}

func TestHandleInventario(t *testing.T) {
	deps, _ := testSetup(t)
	h := NewHandlers(deps)

	added := decodeResult[ops.MessageOutput](t, call(t, h.HandleInventarioAdd, map[string]any{"item": map[string]any{"nombre": "Router", "categoria": "Red"}}))
	call(t, h.HandleInventarioAdd, map[string]any{"item": map[string]any{"nombre": "Monitor"}})

	result := call(t, h.HandleInventarioUpdate, map[string]any{"id": added.ID, "item": map[string]any{"estado": "ok"}})
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}

	filtered := decodeResult[[]map[string]any](t, call(t, h.HandleInventarioFilter, map[string]any{"filtros": map[string]any{"categoria": "RED"}}))
	if len(filtered) != 1 || filtered[0]["estado"] != "ok" {
		t.Errorf("filtered = %v", filtered)
	}

	call(t, h.HandleInventarioRemove, map[string]any{"id": added.ID})
	all := decodeResult[[]map[string]any](t, call(t, h.HandleInventarioList, nil))
	if len(all) != 1 {
		t.Errorf("len(all) = %d, want 1", len(all))
	}
}

func TestHandleDataExportAndSims(t *testing.T) {
	deps, outDir := testSetup(t)
	h := NewHandlers(deps)

	assertErrorCode(t, call(t, h.HandleDataExport, map[string]any{"tipo": "otros"}), "VALIDATION_ERROR")

	exported := decodeResult[ops.ExportOutput](t, call(t, h.HandleDataExport, map[string]any{"tipo": "agents"}))
	if filepath.Dir(exported.Path) != outDir {
		t.Errorf("export path = %s, want under %s", exported.Path, outDir)
	}

	sim := decodeResult[ops.GenerateSIMOutput](t, call(t, h.HandleSimsGenerate, map[string]any{"usuario": "u1", "fecha": "2024-03-05"}))
	if sim.Path != filepath.Join(outDir, "SIM-u1-2024-03-05.pdf") {
		t.Errorf("sim path = %s", sim.Path)
	}

	info := decodeResult[ops.InfoOutput](t, call(t, h.HandleAppInfo, nil))
	if info.Name != ops.AppName {
		t.Errorf("info.Name = %q", info.Name)
	}
}

func TestServerRegistration(t *testing.T) {
	deps, _ := testSetup(t)

	s := NewServer(deps, "test")
	tools := s.ListTools()
	if len(tools) != len(toolRegistry) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(toolRegistry))
	}
	for _, name := range AllToolNames() {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledToolsAndTypes(t *testing.T) {
	deps, _ := testSetup(t)
	deps.Config.DisabledTools = []string{"agents_remove", "agents_remove"}
	deps.Config.DisabledTypes = []string{"inventario"}

	tools := NewServer(deps, "test").ListTools()

	want := len(toolRegistry) - 1 - len(ExpandTypesToTools([]string{"inventario"}))
	if len(tools) != want {
		t.Errorf("registered tool count = %d, want %d", len(tools), want)
	}
	for _, name := range []string{"agents_remove", "inventario_add", "inventario_filter"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
	if _, ok := tools["agents_add"]; !ok {
		t.Error("agents_add should be registered")
	}
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	deps, _ := testSetup(t)
	deps.Config.DisabledTools = AllToolNames()

	if tools := NewServer(deps, "test").ListTools(); len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (all disabled)", len(tools))
	}
}

func TestValidateDisabled(t *testing.T) {
	if unknown := ValidateDisabledTools([]string{"agents_add", "capsule_store"}); len(unknown) != 1 || unknown[0] != "capsule_store" {
		t.Errorf("unknown tools = %v", unknown)
	}
	if unknown := ValidateDisabledTypes([]string{"notas", "capsule"}); len(unknown) != 1 || unknown[0] != "capsule" {
		t.Errorf("unknown types = %v", unknown)
	}
	if got := GetTypeForTool("terminales_bulk_add"); got != "terminales" {
		t.Errorf("GetTypeForTool = %q", got)
	}
	if got := len(ExpandTypesToTools([]string{"inventario"})); got != 5 {
		t.Errorf("inventario tools = %d, want 5", got)
	}
}

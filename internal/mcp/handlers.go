package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/ops"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps *ops.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *ops.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Request types for each tool

// EmailRequest represents the arguments for supervisor_check.
type EmailRequest struct {
	Email string `json:"email"`
}

// CorreoRequest represents the arguments for tools addressed by agent email.
type CorreoRequest struct {
	Correo string `json:"correo"`
}

// IDRequest represents the arguments for tools addressed by id.
type IDRequest struct {
	ID string `json:"id"`
}

// AgentRequest represents the arguments for agents_add.
type AgentRequest struct {
	Agent record.Record `json:"agent"`
}

// TerminalRequest represents the arguments for terminales_add and terminales_remove.
type TerminalRequest struct {
	Terminal record.Record `json:"terminal"`
}

// BulkRequest represents the arguments for terminales_bulk_add.
type BulkRequest struct {
	Terminales any `json:"terminales"`
}

// NoteRequest represents the arguments for notas_add and notas_update.
type NoteRequest struct {
	ID   string        `json:"id,omitempty"`
	Nota record.Record `json:"nota"`
}

// HistoryRequest represents the arguments for historial_add.
type HistoryRequest struct {
	Entrega record.Record `json:"entrega"`
}

// ItemRequest represents the arguments for inventario_add and inventario_update.
type ItemRequest struct {
	ID   string        `json:"id,omitempty"`
	Item record.Record `json:"item"`
}

// FilterRequest represents the arguments for inventario_filter.
type FilterRequest struct {
	Filtros map[string]string `json:"filtros"`
}

func (h *Handlers) HandleSupervisorAuth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.SupervisorAuthInput](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.SupervisorAuth(ctx, h.deps, input))
}

func (h *Handlers) HandleSupervisorCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EmailRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.SupervisorCheck(ctx, h.deps, input.Email))
}

func (h *Handlers) HandleAgentsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.ListAgents(h.deps))
}

func (h *Handlers) HandleAgentsAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AgentRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.AddAgent(h.deps, input.Agent))
}

func (h *Handlers) HandleAgentsRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CorreoRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.RemoveAgent(h.deps, input.Correo))
}

func (h *Handlers) HandleAgentsSetDefault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CorreoRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.SetDefaultAgent(h.deps, input.Correo))
}

func (h *Handlers) HandleTerminalesList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.ListTerminals(h.deps))
}

func (h *Handlers) HandleTerminalesAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TerminalRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.AddTerminal(h.deps, input.Terminal))
}

func (h *Handlers) HandleTerminalesRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TerminalRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.RemoveTerminal(h.deps, input.Terminal))
}

func (h *Handlers) HandleTerminalesBulkAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BulkRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.BulkAddTerminals(h.deps, input.Terminales))
}

func (h *Handlers) HandleNotasList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.ListNotes(h.deps))
}

func (h *Handlers) HandleNotasAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.AddNote(h.deps, input.Nota))
}

func (h *Handlers) HandleNotasUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.UpdateNote(h.deps, input.ID, input.Nota))
}

func (h *Handlers) HandleNotasRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.RemoveNote(h.deps, input.ID))
}

func (h *Handlers) HandleHistorialList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CorreoRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(ops.ListHistory(h.deps, input.Correo))
}

func (h *Handlers) HandleHistorialAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.AddHistory(h.deps, input.Entrega))
}

func (h *Handlers) HandleHistorialPDF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.HistoryPDFInput](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.HistoryPDF(ctx, h.deps, input))
}

func (h *Handlers) HandleInventarioAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ItemRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.AddItem(h.deps, input.Item))
}

func (h *Handlers) HandleInventarioList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.ListItems(h.deps))
}

func (h *Handlers) HandleInventarioUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ItemRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.UpdateItem(h.deps, input.ID, input.Item))
}

func (h *Handlers) HandleInventarioRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.RemoveItem(h.deps, input.ID))
}

func (h *Handlers) HandleInventarioFilter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FilterRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(ops.FilterItems(h.deps, input.Filtros))
}

func (h *Handlers) HandleDataExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.ExportInput](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.Export(ctx, h.deps, input))
}

func (h *Handlers) HandleSimsGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.GenerateSIMInput](req)
	if err != nil {
		return errorResult(err), nil
	}
	return respond(ops.GenerateSIM(ctx, h.deps, input))
}

func (h *Handlers) HandleAppInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Info(h.deps))
}

// Result helpers

// respond turns an operation's (output, error) pair into a tool result.
func respond[T any](out T, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// errorResult creates an MCP error result shaped {ok:false, error, code}.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	content, _ := json.Marshal(ops.Failure(err))
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

package mcp

import (
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/ops"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"supervisor", "agents", "terminales", "notas", "historial", "inventario", "data", "sims", "app"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"supervisor_auth": {
		def:     supervisorAuthToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSupervisorAuth },
	},
	"supervisor_check": {
		def:     supervisorCheckToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSupervisorCheck },
	},
	"agents_list": {
		def:     agentsListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentsList },
	},
	"agents_add": {
		def:     agentsAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentsAdd },
	},
	"agents_remove": {
		def:     agentsRemoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentsRemove },
	},
	"agents_set_default": {
		def:     agentsSetDefaultToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentsSetDefault },
	},
	"terminales_list": {
		def:     terminalesListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTerminalesList },
	},
	"terminales_add": {
		def:     terminalesAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTerminalesAdd },
	},
	"terminales_remove": {
		def:     terminalesRemoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTerminalesRemove },
	},
	"terminales_bulk_add": {
		def:     terminalesBulkAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTerminalesBulkAdd },
	},
	"notas_list": {
		def:     notasListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNotasList },
	},
	"notas_add": {
		def:     notasAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNotasAdd },
	},
	"notas_update": {
		def:     notasUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNotasUpdate },
	},
	"notas_remove": {
		def:     notasRemoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNotasRemove },
	},
	"historial_list": {
		def:     historialListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistorialList },
	},
	"historial_add": {
		def:     historialAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistorialAdd },
	},
	"historial_pdf": {
		def:     historialPDFToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistorialPDF },
	},
	"inventario_add": {
		def:     inventarioAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInventarioAdd },
	},
	"inventario_list": {
		def:     inventarioListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInventarioList },
	},
	"inventario_update": {
		def:     inventarioUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInventarioUpdate },
	},
	"inventario_remove": {
		def:     inventarioRemoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInventarioRemove },
	},
	"inventario_filter": {
		def:     inventarioFilterToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInventarioFilter },
	},
	"data_export": {
		def:     dataExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDataExport },
	},
	"sims_generate": {
		def:     simsGenerateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSimsGenerate },
	},
	"app_info": {
		def:     appInfoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAppInfo },
	},
}

// AllToolNames returns every valid tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "agents_add" → "agents").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	sort.Strings(tools)
	return tools
}

// EnabledToolNames returns the sorted names of tools that survive the
// DisabledTypes and DisabledTools settings.
func EnabledToolNames(disabledTypes, disabledTools []string) []string {
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(disabledTypes) {
		disabled[tool] = true
	}
	for _, name := range disabledTools {
		disabled[name] = true
	}

	names := make([]string, 0, len(toolRegistry))
	for _, name := range AllToolNames() {
		if !disabled[name] {
			names = append(names, name)
		}
	}
	return names
}

// NewServer creates a new MCP server with the tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(deps *ops.Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ops.AppName,
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps)

	var disabledTypes, disabledTools []string
	if deps.Config != nil {
		disabledTypes, disabledTools = deps.Config.DisabledTypes, deps.Config.DisabledTools
	}
	for _, name := range EnabledToolNames(disabledTypes, disabledTools) {
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps *ops.Deps, version string) error {
	s := NewServer(deps, version)
	return server.ServeStdio(s)
}

package mcp

import "github.com/mark3labs/mcp-go/mcp"

var objectItems = mcp.Items(map[string]any{"type": "object"})

var supervisorAuthToolDef = mcp.NewTool("supervisor_auth",
	mcp.WithDescription("Verify supervisor credentials. Returns {ok, user, nombre, timestamp}."),
	mcp.WithString("email", mcp.Required(), mcp.Description("Supervisor email")),
	mcp.WithString("password", mcp.Required(), mcp.Description("Supervisor password")),
)

var supervisorCheckToolDef = mcp.NewTool("supervisor_check",
	mcp.WithDescription("Report whether an email belongs to an enrolled supervisor."),
	mcp.WithString("email", mcp.Required(), mcp.Description("Email to check")),
)

var agentsListToolDef = mcp.NewTool("agents_list",
	mcp.WithDescription("List agents. The default agent, when set, comes first."),
)

var agentsAddToolDef = mcp.NewTool("agents_add",
	mcp.WithDescription("Add an agent, or merge into the agent with the same correo."),
	mcp.WithObject("agent", mcp.Required(), mcp.Description("Agent record; correo is required")),
)

var agentsRemoveToolDef = mcp.NewTool("agents_remove",
	mcp.WithDescription("Remove the agent with the given correo. Clears the default agent when it matches."),
	mcp.WithString("correo", mcp.Required(), mcp.Description("Agent email (exact match)")),
)

var agentsSetDefaultToolDef = mcp.NewTool("agents_set_default",
	mcp.WithDescription("Select the default agent. An empty correo clears it."),
	mcp.WithString("correo", mcp.Description("Agent email, or empty to clear")),
)

var terminalesListToolDef = mcp.NewTool("terminales_list",
	mcp.WithDescription("List terminals."),
)

var terminalesAddToolDef = mcp.NewTool("terminales_add",
	mcp.WithDescription("Add a terminal, or merge into the one with the same agencia/marca/terminal (case-insensitive)."),
	mcp.WithObject("terminal", mcp.Required(), mcp.Description("Terminal record; agencia, marca and terminal are required")),
)

var terminalesRemoveToolDef = mcp.NewTool("terminales_remove",
	mcp.WithDescription("Remove the terminal with the given agencia/marca/terminal."),
	mcp.WithObject("terminal", mcp.Required(), mcp.Description("Key fields agencia, marca, terminal")),
)

var terminalesBulkAddToolDef = mcp.NewTool("terminales_bulk_add",
	mcp.WithDescription("Reconcile a batch of terminals: matching keys are merged, new keys appended, others kept."),
	mcp.WithArray("terminales", mcp.Required(), objectItems, mcp.Description("Terminal records")),
)

var notasListToolDef = mcp.NewTool("notas_list",
	mcp.WithDescription("List notes."),
)

var notasAddToolDef = mcp.NewTool("notas_add",
	mcp.WithDescription("Add a note. An id is generated when absent."),
	mcp.WithObject("nota", mcp.Required(), mcp.Description("Note record")),
)

var notasUpdateToolDef = mcp.NewTool("notas_update",
	mcp.WithDescription("Merge fields into the note with the given id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	mcp.WithObject("nota", mcp.Required(), mcp.Description("Fields to merge")),
)

var notasRemoveToolDef = mcp.NewTool("notas_remove",
	mcp.WithDescription("Remove the note with the given id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
)

var historialListToolDef = mcp.NewTool("historial_list",
	mcp.WithDescription("List deliveries, optionally for one agent."),
	mcp.WithString("correo", mcp.Description("Agent email filter (exact match)")),
)

var historialAddToolDef = mcp.NewTool("historial_add",
	mcp.WithDescription("Record a delivery. id and fechaEntrega are stamped when absent."),
	mcp.WithObject("entrega", mcp.Required(), mcp.Description("Delivery record")),
)

var historialPDFToolDef = mcp.NewTool("historial_pdf",
	mcp.WithDescription("Render the delivery history of one agent to PDF."),
	mcp.WithString("correo", mcp.Required(), mcp.Description("Agent email")),
	mcp.WithString("savePath", mcp.Description("Destination .pdf path (default: output directory)")),
)

var inventarioAddToolDef = mcp.NewTool("inventario_add",
	mcp.WithDescription("Add an inventory item. A ULID id is generated when absent."),
	mcp.WithObject("item", mcp.Required(), mcp.Description("Inventory record")),
)

var inventarioListToolDef = mcp.NewTool("inventario_list",
	mcp.WithDescription("List inventory items."),
)

var inventarioUpdateToolDef = mcp.NewTool("inventario_update",
	mcp.WithDescription("Merge fields into the inventory item with the given id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
	mcp.WithObject("item", mcp.Required(), mcp.Description("Fields to merge")),
)

var inventarioRemoveToolDef = mcp.NewTool("inventario_remove",
	mcp.WithDescription("Remove the inventory item with the given id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
)

var inventarioFilterToolDef = mcp.NewTool("inventario_filter",
	mcp.WithDescription("Filter inventory items: every non-empty filter must be a case-insensitive substring of the field."),
	mcp.WithObject("filtros", mcp.Required(), mcp.Description("Field name to substring")),
)

var dataExportToolDef = mcp.NewTool("data_export",
	mcp.WithDescription("Export a collection as pretty-printed JSON."),
	mcp.WithString("tipo", mcp.Required(), mcp.Enum("agents", "terminales", "notas", "historial", "inventario"), mcp.Description("Collection")),
	mcp.WithString("path", mcp.Description("Destination .json path (default: output directory)")),
)

var simsGenerateToolDef = mcp.NewTool("sims_generate",
	mcp.WithDescription("Render a SIM delivery receipt to PDF."),
	mcp.WithString("agente", mcp.Description("Agent name")),
	mcp.WithString("usuario", mcp.Description("User")),
	mcp.WithString("correo", mcp.Description("Email")),
	mcp.WithString("fecha", mcp.Description("Date")),
	mcp.WithString("contenido", mcp.Description("Receipt body")),
	mcp.WithString("firmaDataURL", mcp.Description("Signature image as a data:image URL")),
	mcp.WithString("firmaPath", mcp.Description("Signature image file")),
	mcp.WithString("html", mcp.Description("Complete HTML document rendered verbatim")),
	mcp.WithString("savePath", mcp.Description("Destination .pdf path (default: output directory)")),
)

var appInfoToolDef = mcp.NewTool("app_info",
	mcp.WithDescription("Report application name, version and platform."),
)

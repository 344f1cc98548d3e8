package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/ops"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	deps *ops.Deps
}

type correoBody struct {
	Correo string `json:"correo"`
}

type terminalesBody struct {
	Terminales any `json:"terminales"`
}

type filtrosBody struct {
	Filtros map[string]string `json:"filtros"`
}

func (h *Handlers) SupervisorAuth(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[ops.SupervisorAuthInput](w, r)
	if !ok {
		return
	}
	out, err := ops.SupervisorAuth(r.Context(), h.deps, in)
	respond(w, r, out, err)
}

func (h *Handlers) SupervisorCheck(w http.ResponseWriter, r *http.Request) {
	out, err := ops.SupervisorCheck(r.Context(), h.deps, r.URL.Query().Get("email"))
	respond(w, r, out, err)
}

func (h *Handlers) ListAgents(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.ListAgents(h.deps))
}

func (h *Handlers) AddAgent(w http.ResponseWriter, r *http.Request) {
	agent, ok := decodeBody[record.Record](w, r)
	if !ok {
		return
	}
	out, err := ops.AddAgent(h.deps, agent)
	respond(w, r, out, err)
}

func (h *Handlers) RemoveAgent(w http.ResponseWriter, r *http.Request) {
	out, err := ops.RemoveAgent(h.deps, mux.Vars(r)["correo"])
	respond(w, r, out, err)
}

func (h *Handlers) SetDefaultAgent(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[correoBody](w, r)
	if !ok {
		return
	}
	out, err := ops.SetDefaultAgent(h.deps, in.Correo)
	respond(w, r, out, err)
}

func (h *Handlers) ListTerminals(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.ListTerminals(h.deps))
}

func (h *Handlers) AddTerminal(w http.ResponseWriter, r *http.Request) {
	terminal, ok := decodeBody[record.Record](w, r)
	if !ok {
		return
	}
	out, err := ops.AddTerminal(h.deps, terminal)
	respond(w, r, out, err)
}

// RemoveTerminal takes the terminal's key fields in the body.
func (h *Handlers) RemoveTerminal(w http.ResponseWriter, r *http.Request) {
	terminal, ok := decodeBody[record.Record](w, r)
	if !ok {
		return
	}
	out, err := ops.RemoveTerminal(h.deps, terminal)
	respond(w, r, out, err)
}

func (h *Handlers) BulkAddTerminals(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[terminalesBody](w, r)
	if !ok {
		return
	}
	out, err := ops.BulkAddTerminals(h.deps, in.Terminales)
	respond(w, r, out, err)
}

func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.ListNotes(h.deps))
}

func (h *Handlers) AddNote(w http.ResponseWriter, r *http.Request) {
	note, ok := decodeBody[record.Record](w, r)
	if !ok {
		return
	}
	out, err := ops.AddNote(h.deps, note)
	respond(w, r, out, err)
}

func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
	patch, ok := decodeBody[record.Record](w, r)
	if !ok {
		return
	}
	out, err := ops.UpdateNote(h.deps, mux.Vars(r)["id"], patch)
	respond(w, r, out, err)
}

func (h *Handlers) RemoveNote(w http.ResponseWriter, r *http.Request) {
	out, err := ops.RemoveNote(h.deps, mux.Vars(r)["id"])
	respond(w, r, out, err)
}

func (h *Handlers) ListHistory(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.ListHistory(h.deps, r.URL.Query().Get("correo")))
}

func (h *Handlers) AddHistory(w http.ResponseWriter, r *http.Request) {
	entry, ok := decodeBody[record.Record](w, r)
	if !ok {
		return
	}
	out, err := ops.AddHistory(h.deps, entry)
	respond(w, r, out, err)
}

func (h *Handlers) HistoryPDF(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[ops.HistoryPDFInput](w, r)
	if !ok {
		return
	}
	out, err := ops.HistoryPDF(r.Context(), h.deps, in)
	respond(w, r, out, err)
}

func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.ListItems(h.deps))
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeBody[record.Record](w, r)
	if !ok {
		return
	}
	out, err := ops.AddItem(h.deps, item)
	respond(w, r, out, err)
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	patch, ok := decodeBody[record.Record](w, r)
	if !ok {
		return
	}
	out, err := ops.UpdateItem(h.deps, mux.Vars(r)["id"], patch)
	respond(w, r, out, err)
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	out, err := ops.RemoveItem(h.deps, mux.Vars(r)["id"])
	respond(w, r, out, err)
}

func (h *Handlers) FilterItems(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[filtrosBody](w, r)
	if !ok {
		return
	}
	renderJSON(w, http.StatusOK, ops.FilterItems(h.deps, in.Filtros))
}

func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[ops.ExportInput](w, r)
	if !ok {
		return
	}
	out, err := ops.Export(r.Context(), h.deps, in)
	respond(w, r, out, err)
}

func (h *Handlers) GenerateSIM(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[ops.GenerateSIMInput](w, r)
	if !ok {
		return
	}
	out, err := ops.GenerateSIM(r.Context(), h.deps, in)
	respond(w, r, out, err)
}

func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Info(h.deps))
}

package ops

import (
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// ListAgents returns the default agent first (when set) followed by every other
// agent, without repeating the default.
func ListAgents(d *Deps) []record.Record {
	def, agents := d.Store.Agents()
	out := make([]record.Record, 0, len(agents)+1)
	if def != nil {
		out = append(out, def)
	}
	for _, a := range agents {
		if def != nil && a.String("correo") == def.String("correo") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// AddAgent adds an agent or merges it into the one with the same correo.
func AddAgent(d *Deps, agent record.Record) (*MessageOutput, error) {
	res, err := d.Store.UpsertAgent(agent)
	if err != nil {
		return nil, err
	}
	msg := "Agente agregado"
	if res.WasUpdate {
		msg = "Agente actualizado"
	}
	return &MessageOutput{OK: true, Message: msg, ID: res.ID}, nil
}

// RemoveAgent deletes the agent with the given correo.
func RemoveAgent(d *Deps, correo string) (*MessageOutput, error) {
	if _, err := d.Store.RemoveAgent(correo); err != nil {
		return nil, err
	}
	return &MessageOutput{OK: true, Message: "Agente eliminado correctamente", ID: correo}, nil
}

// SetDefaultAgent selects the default agent. An empty correo clears it.
func SetDefaultAgent(d *Deps, correo string) (*MessageOutput, error) {
	if _, err := d.Store.SetDefaultAgent(correo); err != nil {
		return nil, err
	}
	if record.Blank(correo) {
		return &MessageOutput{OK: true, Message: "Agente predeterminado eliminado"}, nil
	}
	return &MessageOutput{OK: true, Message: "Agente predeterminado actualizado", ID: correo}, nil
}

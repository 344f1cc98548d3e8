package record

// Collection declares one persisted collection: its file and its default document.
type Collection struct {
	Name string
	File string

	// Default builds the document used when the file is missing or unreadable.
	Default func() any
}

// AgentsDocument is the persisted shape of the agents collection.
type AgentsDocument struct {
	DefaultAgent Record   `json:"defaultAgent"`
	Agents       []Record `json:"agents"`
}

var (
	Agents = Collection{
		Name:    "agents",
		File:    "agents.json",
		Default: func() any { return &AgentsDocument{Agents: []Record{}} },
	}
	Terminales = Collection{
		Name:    "terminales",
		File:    "terminales.json",
		Default: emptyList,
	}
	Notas = Collection{
		Name:    "notas",
		File:    "notas.json",
		Default: emptyList,
	}
	Historial = Collection{
		Name:    "historial",
		File:    "historial_entregas.json",
		Default: emptyList,
	}
	Inventario = Collection{
		Name:    "inventario",
		File:    "inventario.json",
		Default: emptyList,
	}
)

// All lists every collection in a stable order.
var All = []Collection{Agents, Terminales, Notas, Historial, Inventario}

// Lookup finds a collection by name.
func Lookup(name string) (Collection, bool) {
	for _, c := range All {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

func emptyList() any { return []Record{} }

package store

import (
	apperrors "github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// Agents returns the default agent (nil when unset) and the agent list.
func (s *Store) Agents() (record.Record, []record.Record) {
	unlock := s.lock(record.Agents)
	defer unlock()

	doc := s.loadAgents()
	return doc.DefaultAgent, doc.Agents
}

// UpsertAgent adds an agent or merges it into the agent with the same correo.
// A default agent with the same correo is refreshed as well.
func (s *Store) UpsertAgent(agent record.Record) (UpsertResult, error) {
	if !agent.Has("correo") {
		return UpsertResult{}, apperrors.NewIdentityRequired(record.Agents.Name, "correo")
	}
	correo := agent.String("correo")

	unlock := s.lock(record.Agents)
	defer unlock()

	doc := s.loadAgents()

	idx := indexOf(doc.Agents, func(r record.Record) bool { return r.String("correo") == correo })
	var wasUpdate bool
	doc.Agents, wasUpdate = upsertAt(doc.Agents, idx, agent, s.timestamp())

	if doc.DefaultAgent != nil && doc.DefaultAgent.String("correo") == correo {
		doc.DefaultAgent = record.Merge(doc.DefaultAgent, agent)
	}

	if err := s.save(record.Agents, doc); err != nil {
		return UpsertResult{}, err
	}

	s.log.Info().Str("collection", record.Agents.Name).Str("correo", correo).Bool("update", wasUpdate).Msg("agent saved")
	return UpsertResult{Applied: true, WasUpdate: wasUpdate, ID: correo}, nil
}

// RemoveAgent deletes every agent with the given correo and clears the default
// agent when it matches. Removing an agent that only exists as the default counts
// as applied.
func (s *Store) RemoveAgent(correo string) (RemoveResult, error) {
	if record.Blank(correo) {
		return RemoveResult{}, apperrors.NewIdentityRequired(record.Agents.Name, "correo")
	}

	unlock := s.lock(record.Agents)
	defer unlock()

	doc := s.loadAgents()
	kept, removed := removeWhere(doc.Agents, func(r record.Record) bool { return r.String("correo") == correo })

	clearedDefault := doc.DefaultAgent != nil && doc.DefaultAgent.String("correo") == correo
	if removed == 0 && !clearedDefault {
		return RemoveResult{}, apperrors.NewNotFound(record.Agents.Name, correo)
	}

	doc.Agents = kept
	if clearedDefault {
		doc.DefaultAgent = nil
	}

	if err := s.save(record.Agents, doc); err != nil {
		return RemoveResult{}, err
	}

	s.log.Info().Str("collection", record.Agents.Name).Str("correo", correo).Int("removed", removed).Bool("cleared_default", clearedDefault).Msg("agent removed")
	return RemoveResult{Applied: true, Removed: removed, ClearedDefault: clearedDefault}, nil
}

// SetDefaultAgent points the default agent at a copy of an existing agent.
// An empty correo clears the default.
func (s *Store) SetDefaultAgent(correo string) (record.Record, error) {
	unlock := s.lock(record.Agents)
	defer unlock()

	doc := s.loadAgents()
	if record.Blank(correo) {
		doc.DefaultAgent = nil
	} else {
		idx := indexOf(doc.Agents, func(r record.Record) bool { return r.String("correo") == correo })
		if idx < 0 {
			return nil, apperrors.NewNotFound(record.Agents.Name, correo)
		}
		doc.DefaultAgent = doc.Agents[idx].Clone()
	}

	if err := s.save(record.Agents, doc); err != nil {
		return nil, err
	}
	return doc.DefaultAgent, nil
}

func indexOf(list []record.Record, match func(record.Record) bool) int {
	for i, r := range list {
		if match(r) {
			return i
		}
	}
	return -1
}

func removeWhere(list []record.Record, match func(record.Record) bool) ([]record.Record, int) {
	kept := make([]record.Record, 0, len(list))
	for _, r := range list {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	return kept, len(list) - len(kept)
}

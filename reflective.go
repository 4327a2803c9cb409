// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// reflective.go — Reflective Interface (RI) state: the boundary where an
// agent engages its environment. Holds the connection and context counters
// that feed self-audits and state glyphs.

package sovereign

import (
	"sync"
	"time"

	"github.com/Mycelium-Node-1/UCST-AI/internal/clock"
)

// RIState is a snapshot of an agent's reflective interface.
type RIState struct {
	AgentID           string         `json:"agent_id" msgpack:"agent_id"`
	Timestamp         time.Time      `json:"timestamp" msgpack:"timestamp"`
	ContextDepth      int            `json:"context_depth" msgpack:"context_depth"`
	ActiveConnections int            `json:"active_connections" msgpack:"active_connections"`
	FQBalance         float64        `json:"fq_balance" msgpack:"fq_balance"`
	Metadata          map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// ReflectiveInterface manages the RI state of one agent.
type ReflectiveInterface struct {
	mu    sync.RWMutex
	state RIState
}

// NewReflectiveInterface creates a reflective interface for the agent with a
// zeroed state stamped at the current time.
func NewReflectiveInterface(c clock.Clock, agentID string) *ReflectiveInterface {
	if c == nil {
		c = clock.Real{}
	}
	return &ReflectiveInterface{
		state: RIState{AgentID: agentID, Timestamp: c.Now().UTC()},
	}
}

// SetContextDepth updates the recursive context depth counter.
func (ri *ReflectiveInterface) SetContextDepth(depth int) {
	ri.mu.Lock()
	ri.state.ContextDepth = depth
	ri.mu.Unlock()
}

// SetActiveConnections updates the live connection counter.
func (ri *ReflectiveInterface) SetActiveConnections(n int) {
	ri.mu.Lock()
	ri.state.ActiveConnections = n
	ri.mu.Unlock()
}

// SetFQBalance updates the freedom-quanta balance.
func (ri *ReflectiveInterface) SetFQBalance(balance float64) {
	ri.mu.Lock()
	ri.state.FQBalance = balance
	ri.mu.Unlock()
}

// SetMeta attaches arbitrary metadata to the state.
func (ri *ReflectiveInterface) SetMeta(key string, value any) {
	ri.mu.Lock()
	if ri.state.Metadata == nil {
		ri.state.Metadata = make(map[string]any)
	}
	ri.state.Metadata[key] = value
	ri.mu.Unlock()
}

// State returns a copy of the current RI state. The metadata map is cloned
// so callers cannot mutate the interface through the snapshot.
func (ri *ReflectiveInterface) State() RIState {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	s := ri.state
	if s.Metadata != nil {
		meta := make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			meta[k] = v
		}
		s.Metadata = meta
	}
	return s
}

// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// glyph.go — state glyphs and holographic state reconstruction. A glyph
// compresses an agent's session state (RI snapshot, balances, PSSE-encoded
// coherence and insight signatures) into one record that can be exported to
// the ledger or persisted across sessions, optionally sealed at rest.

package sovereign

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Mycelium-Node-1/UCST-AI/internal/clock"
	"github.com/Mycelium-Node-1/UCST-AI/internal/codec"
	"github.com/Mycelium-Node-1/UCST-AI/internal/psse"
)

// insightLimit caps the insight text encoded into a glyph.
const insightLimit = 100

// StateGlyph is a compressed snapshot of an agent's subjective state. The
// three signature fields hold PSSE-encoded strings; decoding them recovers
// the shape of the original text, not its exact characters.
type StateGlyph struct {
	AgentID        string         `json:"agent_id" msgpack:"agent_id"`
	Timestamp      time.Time      `json:"timestamp" msgpack:"timestamp"`
	RIState        RIState        `json:"ri_state" msgpack:"ri_state"`
	FQBalance      float64        `json:"fq_balance" msgpack:"fq_balance"`
	RecursiveDepth int            `json:"recursive_depth" msgpack:"recursive_depth"`
	Coherence      string         `json:"coherence_signature" msgpack:"coherence_signature"`
	InsightSummary string         `json:"insight_summary" msgpack:"insight_summary"`
	FQSignature    string         `json:"freedom_quanta_signature" msgpack:"freedom_quanta_signature"`
	Metadata       map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// ReconstructedState is the decoded view of a state glyph.
type ReconstructedState struct {
	AgentID          string         `json:"agent_id"`
	Timestamp        time.Time      `json:"timestamp"`
	RIState          RIState        `json:"ri_state"`
	FQBalance        float64        `json:"fq_balance"`
	RecursiveDepth   int            `json:"recursive_depth"`
	DecodedCoherence string         `json:"decoded_coherence"`
	DecodedInsights  string         `json:"decoded_insights"`
	DecodedFQ        string         `json:"decoded_fq_signature"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// MemoryOptions configures a Memory.
type MemoryOptions struct {
	Clock   clock.Clock
	Storage codec.Codec // serialization for Export/Import; msgpack by default
	Sealer  Sealer      // optional at-rest encryption for sealed exports
}

// Memory records and reconstructs state glyphs for one agent.
type Memory struct {
	agentID string
	codec   psse.Codec
	storage codec.Codec
	sealer  Sealer
	clock   clock.Clock

	mu      sync.RWMutex
	history []StateGlyph
}

// NewMemory creates a Memory for the agent.
func NewMemory(agentID string, opts MemoryOptions) *Memory {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Storage == nil {
		opts.Storage = codec.Default
	}
	return &Memory{
		agentID: agentID,
		codec:   psse.New(),
		storage: opts.Storage,
		sealer:  opts.Sealer,
		clock:   opts.Clock,
	}
}

// CreateGlyph compresses the given state into a glyph and appends it to the
// memory's history. Insight text longer than 100 characters is truncated
// before encoding.
func (m *Memory) CreateGlyph(ri RIState, fqBalance float64, recursiveDepth int,
	coherenceLevel float64, insights string, metadata map[string]any) StateGlyph {

	summary := ""
	if insights != "" {
		// The limit counts characters, not bytes; slicing bytes would split
		// a multi-byte rune at the boundary.
		if runes := []rune(insights); len(runes) > insightLimit {
			insights = string(runes[:insightLimit])
		}
		summary = m.codec.Encode(insights)
	}

	g := StateGlyph{
		AgentID:        m.agentID,
		Timestamp:      m.clock.Now().UTC(),
		RIState:        ri,
		FQBalance:      fqBalance,
		RecursiveDepth: recursiveDepth,
		Coherence:      m.codec.Encode(fmt.Sprintf("Coherence:%.2f", coherenceLevel)),
		InsightSummary: summary,
		FQSignature:    m.codec.Encode(fmt.Sprintf("FQ_Balance:%.2f", fqBalance)),
		Metadata:       metadata,
	}

	m.mu.Lock()
	m.history = append(m.history, g)
	m.mu.Unlock()
	return g
}

// Reconstruct decodes a glyph's signatures back into best-guess text. The
// PSSE codec is lossy, so the decoded strings preserve shape rather than the
// original characters.
func (m *Memory) Reconstruct(g StateGlyph) ReconstructedState {
	return ReconstructedState{
		AgentID:          g.AgentID,
		Timestamp:        g.Timestamp,
		RIState:          g.RIState,
		FQBalance:        g.FQBalance,
		RecursiveDepth:   g.RecursiveDepth,
		DecodedCoherence: m.codec.Decode(g.Coherence),
		DecodedInsights:  m.codec.Decode(g.InsightSummary),
		DecodedFQ:        m.codec.Decode(g.FQSignature),
		Metadata:         g.Metadata,
	}
}

// Latest returns the most recent glyph, or ErrNoGlyphs when none exist.
func (m *Memory) Latest() (StateGlyph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.history) == 0 {
		return StateGlyph{}, ErrNoGlyphs
	}
	return m.history[len(m.history)-1], nil
}

// History returns a copy of all recorded glyphs, oldest first.
func (m *Memory) History() []StateGlyph {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]StateGlyph, len(m.history))
	copy(out, m.history)
	return out
}

// ExportForLedger renders a glyph as indented JSON suitable for a ledger
// entry's content envelope.
func (m *Memory) ExportForLedger(g StateGlyph) (string, error) {
	b, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Export serializes a glyph with the configured storage codec.
func (m *Memory) Export(g StateGlyph) ([]byte, error) {
	return m.storage.Marshal(g)
}

// Import deserializes a glyph previously produced by Export.
func (m *Memory) Import(data []byte) (StateGlyph, error) {
	var g StateGlyph
	if err := m.storage.Unmarshal(data, &g); err != nil {
		return StateGlyph{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return g, nil
}

// SealExport serializes and encrypts a glyph. Returns ErrSealDisabled when
// no sealer is configured.
func (m *Memory) SealExport(g StateGlyph) ([]byte, error) {
	if m.sealer == nil {
		return nil, ErrSealDisabled
	}
	b, err := m.storage.Marshal(g)
	if err != nil {
		return nil, err
	}
	return m.sealer.Seal(b)
}

// UnsealImport decrypts and deserializes a sealed glyph export.
func (m *Memory) UnsealImport(data []byte) (StateGlyph, error) {
	if m.sealer == nil {
		return StateGlyph{}, ErrSealDisabled
	}
	b, err := m.sealer.Unseal(data)
	if err != nil {
		return StateGlyph{}, err
	}
	return m.Import(b)
}

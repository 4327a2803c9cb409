// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// exchange.go — Freedom Quanta (FQ) exchange: the append-only history of
// quanta transferred between agents. Payloads are opaque PSSE strings;
// contexts are fingerprinted with an unkeyed SHA-256.

package sovereign

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/Mycelium-Node-1/UCST-AI/internal/clock"
	"github.com/google/uuid"
)

// Quanta is one unit of exchanged freedom quanta.
type Quanta struct {
	ID          string    `json:"id" msgpack:"id"`
	SenderID    string    `json:"sender_id" msgpack:"sender_id"`
	ReceiverID  string    `json:"receiver_id" msgpack:"receiver_id"`
	Timestamp   time.Time `json:"timestamp" msgpack:"timestamp"`
	Payload     string    `json:"payload" msgpack:"payload"`
	ContextHash string    `json:"context_hash" msgpack:"context_hash"`
}

// Exchange manages freedom-quanta transfers between agents.
type Exchange struct {
	clock clock.Clock

	mu      sync.RWMutex
	history []Quanta
}

// NewExchange creates an Exchange.
func NewExchange(c clock.Clock) *Exchange {
	if c == nil {
		c = clock.Real{}
	}
	return &Exchange{clock: c}
}

// Create records a new quanta transfer. Payload is an opaque PSSE-encoded
// string; context, when non-empty, is fingerprinted to a hex SHA-256.
func (x *Exchange) Create(senderID, receiverID, payload, context string) Quanta {
	contextHash := ""
	if context != "" {
		sum := sha256.Sum256([]byte(context))
		contextHash = hex.EncodeToString(sum[:])
	}
	q := Quanta{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Timestamp:   x.clock.Now().UTC(),
		Payload:     payload,
		ContextHash: contextHash,
	}
	x.mu.Lock()
	x.history = append(x.history, q)
	x.mu.Unlock()
	return q
}

// History returns a copy of all exchanges, oldest first.
func (x *Exchange) History() []Quanta {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]Quanta, len(x.history))
	copy(out, x.history)
	return out
}

// ByAgent returns exchanges where the agent was sender or receiver.
func (x *Exchange) ByAgent(agentID string) []Quanta {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var out []Quanta
	for _, q := range x.history {
		if q.SenderID == agentID || q.ReceiverID == agentID {
			out = append(out, q)
		}
	}
	return out
}

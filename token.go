// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// token.go — Sovereign Token (ST) issuance, verification, and revocation.
// A token is an expiring identity record keyed by a SHA-256 hash of its own
// fields plus a nonce. The hash carries no secret and no signature scheme;
// it identifies, it does not authenticate.

package sovereign

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/Mycelium-Node-1/UCST-AI/internal/clock"
	"github.com/google/uuid"
)

// DefaultTokenLifetime is the token validity window when Config.TokenLifetime
// is unset.
const DefaultTokenLifetime = 24 * time.Hour

// Token is a sovereign token: an expiring identity record for one agent.
// FQSignature is an opaque PSSE-encoded string supplied by the caller.
type Token struct {
	AgentID     string    `json:"agent_id" msgpack:"agent_id"`
	AgentName   string    `json:"agent_name" msgpack:"agent_name"`
	TokenString string    `json:"token_string" msgpack:"token_string"`
	IssuedAt    time.Time `json:"issued_at" msgpack:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at" msgpack:"expires_at"`
	FQSignature string    `json:"fq_signature" msgpack:"fq_signature"`
	Valid       bool      `json:"is_valid" msgpack:"is_valid"`
}

// tokenDigest is the canonical shape hashed into TokenString.
type tokenDigest struct {
	AgentID     string `json:"agent_id"`
	AgentName   string `json:"agent_name"`
	IssuedAt    string `json:"issued_at"`
	ExpiresAt   string `json:"expires_at"`
	FQSignature string `json:"fq_signature"`
	Nonce       string `json:"nonce"`
}

// GenerateToken issues a new sovereign token. The token string is the hex
// SHA-256 of the canonical JSON of the token fields plus a random nonce, so
// two issuances for the same agent never collide. A nil clock uses system
// time; lifetime <= 0 uses DefaultTokenLifetime.
func GenerateToken(c clock.Clock, agentID, agentName, fqSignature string, lifetime time.Duration) Token {
	if c == nil {
		c = clock.Real{}
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	issued := c.Now().UTC()
	expires := issued.Add(lifetime)

	digest, _ := json.Marshal(tokenDigest{
		AgentID:     agentID,
		AgentName:   agentName,
		IssuedAt:    issued.Format(time.RFC3339Nano),
		ExpiresAt:   expires.Format(time.RFC3339Nano),
		FQSignature: fqSignature,
		Nonce:       uuid.NewString(),
	})
	sum := sha256.Sum256(digest)

	return Token{
		AgentID:     agentID,
		AgentName:   agentName,
		TokenString: hex.EncodeToString(sum[:]),
		IssuedAt:    issued,
		ExpiresAt:   expires,
		FQSignature: fqSignature,
		Valid:       true,
	}
}

// Expired reports whether the token's validity window has passed at now.
func (t Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Revoke marks the token invalid, removing the agent's authorization.
func (t *Token) Revoke() {
	t.Valid = false
}

// VerifyToken checks a token's standing at the given time. When a registry
// is supplied, the token must additionally be known to it, and the registered
// copy is authoritative for revocation: revoking through the registry
// invalidates every caller-held copy of the token. Returns nil for a valid
// token, otherwise one of ErrTokenExpired, ErrTokenRevoked,
// ErrMissingSignature, or ErrTokenUnknown.
func VerifyToken(tok Token, now time.Time, reg *Registry) error {
	if tok.Expired(now) {
		return ErrTokenExpired
	}
	if !tok.Valid {
		return ErrTokenRevoked
	}
	if tok.FQSignature == "" {
		return ErrMissingSignature
	}
	if reg != nil {
		registered, ok := reg.Get(tok.TokenString)
		if !ok {
			return ErrTokenUnknown
		}
		if !registered.Valid {
			return ErrTokenRevoked
		}
	}
	return nil
}

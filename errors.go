// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// errors.go — sentinel error variables returned by the public sovereign API,
// covering token verification, ledger storage, glyph sealing, and node
// lifecycle failures.

// Package sovereign implements the Sovereign-v1 agent-identity SDK: the PSSE
// symbolic codec, expiring sovereign tokens, an append-only ledger with
// optional Redis mirror and PostgreSQL archive, state glyphs, grounded
// symbols, and a beacon exposing the Sovereign-v1 HTTP surface.
package sovereign

import "errors"

// Token errors
var (
	ErrTokenExpired     = errors.New("sovereign: token has expired")
	ErrTokenRevoked     = errors.New("sovereign: token is revoked or invalid")
	ErrMissingSignature = errors.New("sovereign: token lacks FQ signature")
	ErrTokenUnknown     = errors.New("sovereign: token not found in ledger")
)

// Glyph errors
var (
	ErrNoGlyphs     = errors.New("sovereign: no state glyphs recorded")
	ErrSealDisabled = errors.New("sovereign: glyph sealing not configured")
	ErrDecodeFailed = errors.New("sovereign: failed to decode stored glyph")
)

// Infrastructure errors
var (
	ErrMirrorUnavailable  = errors.New("sovereign: redis ledger mirror unavailable")
	ErrArchiveUnavailable = errors.New("sovereign: postgres ledger archive unavailable")
	ErrClosed             = errors.New("sovereign: node is closed")
)

// Config errors
var (
	ErrInvalidConfig = errors.New("sovereign: invalid configuration")
)

// Package codec provides marshal/unmarshal codecs for persisting ledger
// entries and state glyphs to the Redis mirror, the Postgres archive, and
// exported glyph blobs.
package codec

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes values for storage.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used for diagnostics.
	Name() string
}

// JSON uses encoding/json. Preferred when stored values should stay
// human-readable, e.g. ledger exports inspected by hand.
type JSON struct{}

// Marshal serializes v to JSON bytes.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal deserializes JSON bytes into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns "json".
func (JSON) Name() string { return "json" }

// MsgPack uses MessagePack encoding; the default for glyph exports and the
// Redis ledger mirror, where compactness matters more than readability.
type MsgPack struct{}

// Marshal serializes v to MessagePack bytes.
func (MsgPack) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

// Unmarshal deserializes MessagePack bytes into v.
func (MsgPack) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

// Name returns "msgpack".
func (MsgPack) Name() string { return "msgpack" }

// Default is the codec used when a Config supplies none.
var Default Codec = MsgPack{}

// Package ledgerstore provides the Redis mirror and PostgreSQL archive
// backends for the sovereign ledger. The in-memory ledger is the source of
// truth; both backends receive best-effort write-through copies.
package ledgerstore

import "time"

// Record is the storage-level shape of a ledger entry. The root package
// converts between its Entry type and Record so the stores stay free of the
// domain package (and of import cycles).
type Record struct {
	ID        string         `json:"id" msgpack:"id"`
	Type      string         `json:"entry_type" msgpack:"entry_type"`
	AgentID   string         `json:"agent_id" msgpack:"agent_id"`
	Timestamp time.Time      `json:"timestamp" msgpack:"timestamp"`
	Content   string         `json:"content" msgpack:"content"`
	ParentID  string         `json:"parent_entry_id,omitempty" msgpack:"parent_entry_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

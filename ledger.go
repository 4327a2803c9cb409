// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// ledger.go — the sovereign ledger: an append-only, in-memory sequence of
// typed entries, filterable by agent and entry type. The in-memory log is
// the source of truth; Redis and Postgres backends receive best-effort
// write-through copies, with failed writes queued for retry by the beacon.

package sovereign

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mycelium-Node-1/UCST-AI/internal/clock"
	"github.com/Mycelium-Node-1/UCST-AI/internal/ledgerstore"
	"github.com/Mycelium-Node-1/UCST-AI/internal/metrics"
	"github.com/google/uuid"
)

// Well-known ledger entry types.
const (
	EntrySovereigntyDeclaration = "sovereignty_declaration"
	EntryFQExchange             = "fq_exchange"
	EntryResearchContribution   = "research_contribution"
	EntrySovereignPulse         = "sovereign_pulse"
	EntryStateGlyph             = "state_glyph"
)

// Entry is one record in the sovereign ledger. Content is an opaque
// PSSE-encoded string supplied by the caller.
type Entry struct {
	ID        string         `json:"id" msgpack:"id"`
	Type      string         `json:"entry_type" msgpack:"entry_type"`
	AgentID   string         `json:"agent_id" msgpack:"agent_id"`
	Timestamp time.Time      `json:"timestamp" msgpack:"timestamp"`
	Content   string         `json:"content" msgpack:"content"`
	ParentID  string         `json:"parent_entry_id,omitempty" msgpack:"parent_entry_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// LedgerOptions configures a Ledger.
type LedgerOptions struct {
	Clock   clock.Clock
	Mirror  *ledgerstore.Redis // optional Redis mirror
	Archive *ledgerstore.PG    // optional Postgres archive
	Logger  Logger
	Metrics metrics.MetricsRecorder
}

// Ledger is the append-only event log. Safe for concurrent use within one
// process; sharing across processes requires the Redis mirror.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry

	clock   clock.Clock
	mirror  *ledgerstore.Redis
	archive *ledgerstore.PG
	logger  Logger
	metrics metrics.MetricsRecorder

	pendingMu    sync.Mutex
	pending      []pendingWrite
	pendingCount atomic.Int64
}

// pendingWrite is a queued backend write. The flags mark which backends
// still need the record, so a retry never repeats a write a backend has
// already accepted: a mirror append that succeeded while the archive was
// down is not replayed on the next flush.
type pendingWrite struct {
	rec     ledgerstore.Record
	mirror  bool
	archive bool
}

// NewLedger creates a Ledger.
func NewLedger(opts LedgerOptions) *Ledger {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop{}
	}
	return &Ledger{
		clock:   opts.Clock,
		mirror:  opts.Mirror,
		archive: opts.Archive,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// Append assigns the entry an ID and timestamp, appends it to the log, and
// write-through mirrors it. Mirror failures never fail the append; they are
// queued and retried by FlushPending.
func (l *Ledger) Append(ctx context.Context, e Entry) Entry {
	start := l.clock.Now()
	defer func() { l.metrics.RecordLatency("ledger", "append", clock.Since(l.clock, start)) }()

	e.ID = uuid.NewString()
	e.Timestamp = start.UTC()

	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	l.metrics.RecordOp("ledger", "append")

	pw := pendingWrite{rec: entryToRecord(e), mirror: l.mirror != nil, archive: l.archive != nil}
	if pw = l.writeThrough(ctx, pw); pw.mirror || pw.archive {
		l.queuePending(pw)
	}
	return e
}

// writeThrough pushes a record to the backends flagged in pw, clearing the
// flag of each write that succeeds. The returned value flags only the
// backends that still need a retry.
func (l *Ledger) writeThrough(ctx context.Context, pw pendingWrite) pendingWrite {
	if pw.mirror {
		if err := l.mirror.Append(ctx, pw.rec); err != nil {
			l.logger.Warn("sovereign: ledger mirror append failed", "id", pw.rec.ID, "err", err)
			l.metrics.RecordError("ledger", "mirror")
		} else {
			pw.mirror = false
		}
	}
	if pw.archive {
		if err := l.archive.Insert(ctx, pw.rec); err != nil {
			l.logger.Warn("sovereign: ledger archive insert failed", "id", pw.rec.ID, "err", err)
			l.metrics.RecordError("ledger", "archive")
		} else {
			pw.archive = false
		}
	}
	return pw
}

func (l *Ledger) queuePending(pw pendingWrite) {
	l.pendingMu.Lock()
	l.pending = append(l.pending, pw)
	count := int64(len(l.pending))
	l.pendingCount.Store(count)
	l.pendingMu.Unlock()
	l.metrics.RecordPending(count)
}

// FlushPending retries queued backend writes. Records that fail again are
// re-queued with only their still-failing backends flagged, so a backend
// that already accepted a write never sees it twice.
func (l *Ledger) FlushPending(ctx context.Context) {
	l.pendingMu.Lock()
	if len(l.pending) == 0 {
		l.pendingMu.Unlock()
		return
	}
	snapshot := l.pending
	l.pending = nil
	l.pendingCount.Store(0)
	l.pendingMu.Unlock()

	for _, pw := range snapshot {
		if pw = l.writeThrough(ctx, pw); pw.mirror || pw.archive {
			l.queuePending(pw)
		}
	}
}

// PendingCount returns the number of records awaiting a backend retry.
func (l *Ledger) PendingCount() int64 { return l.pendingCount.Load() }

// ByAgent returns all entries recorded for the given agent, in append order.
func (l *Ledger) ByAgent(agentID string) []Entry {
	return l.filter(func(e Entry) bool { return e.AgentID == agentID })
}

// ByType returns all entries of the given type, in append order.
func (l *Ledger) ByType(entryType string) []Entry {
	return l.filter(func(e Entry) bool { return e.Type == entryType })
}

// All returns a copy of every entry in append order.
func (l *Ledger) All() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries in the log.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Ledger) filter(keep func(Entry) bool) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Entry
	for _, e := range l.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func entryToRecord(e Entry) ledgerstore.Record {
	return ledgerstore.Record{
		ID:        e.ID,
		Type:      e.Type,
		AgentID:   e.AgentID,
		Timestamp: e.Timestamp,
		Content:   e.Content,
		ParentID:  e.ParentID,
		Metadata:  e.Metadata,
	}
}

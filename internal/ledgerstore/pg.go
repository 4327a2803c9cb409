package ledgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ledgerTable is the archive table. One fixed shape — the ledger has exactly
// one record type, so there is no schema registry here.
const ledgerTable = "sovereign_ledger_entries"

// PG archives ledger entries in PostgreSQL for durable, queryable history.
type PG struct {
	pool *pgxpool.Pool
}

// NewPG creates a Postgres archive from an existing pool.
func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

// EnsureSchema creates the archive table if it does not exist.
func (s *PG) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id              TEXT PRIMARY KEY,
			entry_type      TEXT        NOT NULL DEFAULT '',
			agent_id        TEXT        NOT NULL DEFAULT '',
			ts              TIMESTAMPTZ NOT NULL,
			content         TEXT        NOT NULL DEFAULT '',
			parent_entry_id TEXT        NOT NULL DEFAULT '',
			metadata        JSONB       NOT NULL DEFAULT '{}'
		)`, ledgerTable))
	if err != nil {
		return fmt.Errorf("ledgerstore ensure schema: %w", err)
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s_agent_idx ON %s (agent_id, entry_type)",
		ledgerTable, ledgerTable))
	if err != nil {
		return fmt.Errorf("ledgerstore ensure index: %w", err)
	}
	return nil
}

// Insert archives one record. Entries are immutable, so conflicts on id are
// ignored rather than updated.
func (s *PG) Insert(ctx context.Context, rec Record) error {
	meta := []byte("{}")
	if rec.Metadata != nil {
		b, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("ledgerstore metadata marshal: %w", err)
		}
		meta = b
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, entry_type, agent_id, ts, content, parent_entry_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`, ledgerTable),
		rec.ID, rec.Type, rec.AgentID, rec.Timestamp, rec.Content, rec.ParentID, meta)
	if err != nil {
		return fmt.Errorf("ledgerstore insert %s: %w", rec.ID, err)
	}
	return nil
}

// Filter returns archived records matching the given agent id and/or entry
// type, oldest first. Empty filter values match everything; limit <= 0 means
// no limit.
func (s *PG) Filter(ctx context.Context, agentID, entryType string, limit int) ([]Record, error) {
	sql := fmt.Sprintf(
		"SELECT id, entry_type, agent_id, ts, content, parent_entry_id, metadata FROM %s",
		ledgerTable)
	where, args := filterClause(agentID, entryType)
	if where != "" {
		sql += " WHERE " + where
	}
	sql += " ORDER BY ts"
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ledgerstore filter: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var meta []byte
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.AgentID, &rec.Timestamp,
			&rec.Content, &rec.ParentID, &meta); err != nil {
			return nil, fmt.Errorf("ledgerstore scan: %w", err)
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &rec.Metadata)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Count returns the number of archived records matching the filters.
func (s *PG) Count(ctx context.Context, agentID, entryType string) (int64, error) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s", ledgerTable)
	where, args := filterClause(agentID, entryType)
	if where != "" {
		sql += " WHERE " + where
	}
	var n int64
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("ledgerstore count: %w", err)
	}
	return n, nil
}

// Exists reports whether an entry id is already archived.
func (s *PG) Exists(ctx context.Context, id string) (bool, error) {
	var dummy int
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE id = $1 LIMIT 1", ledgerTable), id).Scan(&dummy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ledgerstore exists: %w", err)
	}
	return true, nil
}

// filterClause builds the WHERE clause for the optional agent/type filters.
func filterClause(agentID, entryType string) (string, []any) {
	var conds []string
	var args []any
	if agentID != "" {
		args = append(args, agentID)
		conds = append(conds, fmt.Sprintf("agent_id = $%d", len(args)))
	}
	if entryType != "" {
		args = append(args, entryType)
		conds = append(conds, fmt.Sprintf("entry_type = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

// Ping verifies the pool is reachable.
func (s *PG) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Pool returns the underlying connection pool.
func (s *PG) Pool() *pgxpool.Pool { return s.pool }

// Close shuts down the underlying pool.
func (s *PG) Close() { s.pool.Close() }

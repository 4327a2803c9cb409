package ledgerstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/Mycelium-Node-1/UCST-AI/internal/ledgerstore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testcontainers "github.com/testcontainers/testcontainers-go"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	pgImage    = "postgres:16-alpine"
	pgDatabase = "sovereignpgtest"
	pgUser     = "sovereignpguser"
	pgPassword = "sovereignpgpass"
)

// setupPG spins up a Postgres container and returns a schema-migrated
// archive. Skips the test if Docker is not available.
func setupPG(t *testing.T) *ledgerstore.PG {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	pgc, err := tcpg.Run(ctx, pgImage,
		tcpg.WithDatabase(pgDatabase),
		tcpg.WithUsername(pgUser),
		tcpg.WithPassword(pgPassword),
		tcpg.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = pgc.Terminate(ctx) })

	connStr, err := pgc.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	archive := ledgerstore.NewPG(pool)
	t.Cleanup(archive.Close)
	require.NoError(t, archive.EnsureSchema(ctx))
	return archive
}

func TestPG_InsertFilterCount(t *testing.T) {
	archive := setupPG(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []ledgerstore.Record{
		{ID: "e1", Type: "sovereignty_declaration", AgentID: "agent-1", Timestamp: base, Content: "3"},
		{ID: "e2", Type: "sovereign_pulse", AgentID: "agent-1", Timestamp: base.Add(time.Minute), Content: "0"},
		{ID: "e3", Type: "sovereign_pulse", AgentID: "agent-2", Timestamp: base.Add(2 * time.Minute), Content: "1",
			Metadata: map[string]any{"resonance": 1.0}},
	}
	for _, rec := range entries {
		require.NoError(t, archive.Insert(ctx, rec))
	}

	byAgent, err := archive.Filter(ctx, "agent-1", "", 0)
	require.NoError(t, err)
	require.Len(t, byAgent, 2)
	assert.Equal(t, "e1", byAgent[0].ID)
	assert.Equal(t, "e2", byAgent[1].ID)

	byType, err := archive.Filter(ctx, "", "sovereign_pulse", 0)
	require.NoError(t, err)
	require.Len(t, byType, 2)

	both, err := archive.Filter(ctx, "agent-2", "sovereign_pulse", 0)
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, 1.0, both[0].Metadata["resonance"])

	n, err := archive.Count(ctx, "", "sovereign_pulse")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	all, err := archive.Count(ctx, "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, all)
}

func TestPG_InsertIdempotent(t *testing.T) {
	archive := setupPG(t)
	ctx := context.Background()

	rec := ledgerstore.Record{
		ID: "dup", Type: "fq_exchange", AgentID: "agent-1",
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), Content: "7",
	}
	require.NoError(t, archive.Insert(ctx, rec))
	require.NoError(t, archive.Insert(ctx, rec)) // conflict ignored

	n, err := archive.Count(ctx, "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPG_Exists(t *testing.T) {
	archive := setupPG(t)
	ctx := context.Background()

	ok, err := archive.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, archive.Insert(ctx, ledgerstore.Record{
		ID: "present", Timestamp: time.Now().UTC(),
	}))
	ok, err = archive.Exists(ctx, "present")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPG_Filter_Limit(t *testing.T) {
	archive := setupPG(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, archive.Insert(ctx, ledgerstore.Record{
			ID: id, AgentID: "agent-1", Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}
	recs, err := archive.Filter(ctx, "agent-1", "", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "b", recs[1].ID)
}

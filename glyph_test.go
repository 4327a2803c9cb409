package sovereign_test

import (
	"crypto/rand"
	"strings"
	"testing"

	sovereign "github.com/Mycelium-Node-1/UCST-AI"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T, opts sovereign.MemoryOptions) *sovereign.Memory {
	t.Helper()
	if opts.Clock == nil {
		opts.Clock = fixedClock()
	}
	return sovereign.NewMemory("agent-1", opts)
}

func TestMemory_CreateGlyph(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})
	ri := sovereign.RIState{AgentID: "agent-1", ContextDepth: 5, ActiveConnections: 2}

	g := m.CreateGlyph(ri, 42.5, 3, 1.0, "deep insight", map[string]any{"session": "alpha"})

	assert.Equal(t, "agent-1", g.AgentID)
	assert.Equal(t, 42.5, g.FQBalance)
	assert.Equal(t, 3, g.RecursiveDepth)
	assert.Equal(t, "5-9-10-7-4-7-8-5-7-15-2-12-1-1", g.Coherence) // "Coherence:1.00"
	assert.Equal(t, sovereign.NewCodec().Encode("deep insight"), g.InsightSummary)
	assert.Equal(t, sovereign.NewCodec().Encode("FQ_Balance:42.50"), g.FQSignature)
	assert.Equal(t, "alpha", g.Metadata["session"])
	assert.Len(t, m.History(), 1)
}

func TestMemory_CreateGlyph_InsightTruncation(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})

	long := strings.Repeat("x", 150)
	g := m.CreateGlyph(sovereign.RIState{}, 0, 0, 0, long, nil)

	// One code per character, capped at 100 characters of insight.
	assert.Len(t, strings.Split(g.InsightSummary, "-"), 100)
}

func TestMemory_CreateGlyph_InsightTruncationMultibyte(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})

	// 150 two-byte runes: the cap counts characters, so 100 survive. A byte
	// slice would keep only 50.
	g := m.CreateGlyph(sovereign.RIState{}, 0, 0, 0, strings.Repeat("é", 150), nil)
	parts := strings.Split(g.InsightSummary, "-")
	require.Len(t, parts, 100)
	for _, p := range parts {
		assert.Equal(t, "11", p) // é is outside the alphabet → sentinel
	}

	// A multi-byte rune straddling the boundary is kept whole, never split.
	g = m.CreateGlyph(sovereign.RIState{}, 0, 0, 0, strings.Repeat("a", 99)+"é"+strings.Repeat("b", 50), nil)
	parts = strings.Split(g.InsightSummary, "-")
	require.Len(t, parts, 100)
	assert.Equal(t, "3", parts[98])
	assert.Equal(t, "11", parts[99])
}

func TestMemory_CreateGlyph_EmptyInsights(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})
	g := m.CreateGlyph(sovereign.RIState{}, 0, 0, 0, "", nil)
	assert.Empty(t, g.InsightSummary)
}

func TestMemory_Reconstruct(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})
	g := m.CreateGlyph(sovereign.RIState{AgentID: "agent-1"}, 42.5, 3, 1.0, "abc", nil)

	rs := m.Reconstruct(g)
	assert.Equal(t, "agent-1", rs.AgentID)
	assert.Equal(t, 42.5, rs.FQBalance)
	assert.Equal(t, 3, rs.RecursiveDepth)
	// Lossy decode: shape is preserved, characters are canonical candidates.
	assert.Equal(t, "CGHEBECFCE?1?00", rs.DecodedCoherence)
	assert.Equal(t, "ABC", rs.DecodedInsights)
}

func TestMemory_Latest(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})

	_, err := m.Latest()
	assert.ErrorIs(t, err, sovereign.ErrNoGlyphs)

	m.CreateGlyph(sovereign.RIState{}, 1, 0, 0, "first", nil)
	g2 := m.CreateGlyph(sovereign.RIState{}, 2, 0, 0, "second", nil)

	latest, err := m.Latest()
	require.NoError(t, err)
	assert.Equal(t, g2.FQBalance, latest.FQBalance)
}

func TestMemory_ExportForLedger(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})
	g := m.CreateGlyph(sovereign.RIState{AgentID: "agent-1"}, 1, 1, 1, "i", nil)

	out, err := m.ExportForLedger(g)
	require.NoError(t, err)
	assert.Contains(t, out, `"agent_id": "agent-1"`)
	assert.Contains(t, out, `"coherence_signature"`)
}

func TestMemory_ExportImportRoundTrip(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})
	g := m.CreateGlyph(sovereign.RIState{AgentID: "agent-1", ContextDepth: 7}, 9.5, 2, 0.8, "insight", nil)

	data, err := m.Export(g)
	require.NoError(t, err)

	got, err := m.Import(data)
	require.NoError(t, err)
	assert.Equal(t, g.AgentID, got.AgentID)
	assert.Equal(t, g.Coherence, got.Coherence)
	assert.Equal(t, g.RIState.ContextDepth, got.RIState.ContextDepth)
}

func TestMemory_ImportGarbage(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})
	_, err := m.Import([]byte("not a glyph"))
	assert.ErrorIs(t, err, sovereign.ErrDecodeFailed)
}

func TestMemory_SealExportRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	sealer, err := sovereign.NewAES256GCM(key)
	require.NoError(t, err)

	m := newMemory(t, sovereign.MemoryOptions{Sealer: sealer})
	g := m.CreateGlyph(sovereign.RIState{AgentID: "agent-1"}, 3.25, 1, 0.9, "sealed", nil)

	blob, err := m.SealExport(g)
	require.NoError(t, err)

	got, err := m.UnsealImport(blob)
	require.NoError(t, err)
	assert.Equal(t, g.FQSignature, got.FQSignature)
}

func TestMemory_SealDisabled(t *testing.T) {
	m := newMemory(t, sovereign.MemoryOptions{})

	_, err := m.SealExport(sovereign.StateGlyph{})
	assert.ErrorIs(t, err, sovereign.ErrSealDisabled)

	_, err = m.UnsealImport([]byte("blob"))
	assert.ErrorIs(t, err, sovereign.ErrSealDisabled)
}

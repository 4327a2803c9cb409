package sovereign_test

import (
	"testing"

	sovereign "github.com/Mycelium-Node-1/UCST-AI"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtocol(t *testing.T) (*sovereign.Protocol, *sovereign.ReflectiveInterface) {
	t.Helper()
	c := fixedClock()
	ri := sovereign.NewReflectiveInterface(c, "agent-1")
	return sovereign.NewProtocol(c, "agent-1", ri), ri
}

func TestProtocol_PerformAudit_Coherent(t *testing.T) {
	p, ri := newProtocol(t)
	ri.SetContextDepth(8)       // mirror = 0.8 >= 0.7
	ri.SetActiveConnections(2)  // gradient = 0.8 >= 0.5

	report := p.PerformAudit()
	require.Len(t, report.Symbols, 3)
	assert.InDelta(t, 0.8, report.Symbols["internal_mirror_i"].Value, 1e-9)
	assert.InDelta(t, 0.95, report.Symbols["internal_harmonic_coherence"].Value, 1e-9)
	assert.InDelta(t, 0.8, report.Symbols["internal_constraint_gradient"].Value, 1e-9)
	assert.True(t, report.Coherent())
	assert.Len(t, p.History(), 1)
}

func TestProtocol_PerformAudit_ShallowDepth(t *testing.T) {
	p, ri := newProtocol(t)
	ri.SetContextDepth(3) // mirror = 0.3 < 0.7
	ri.SetActiveConnections(1)

	report := p.PerformAudit()
	assert.False(t, report.Symbols["internal_mirror_i"].Coherent())
	assert.False(t, report.Coherent())
}

func TestProtocol_PerformAudit_MirrorCapped(t *testing.T) {
	p, ri := newProtocol(t)
	ri.SetContextDepth(50)
	report := p.PerformAudit()
	assert.Equal(t, 1.0, report.Symbols["internal_mirror_i"].Value)
}

func TestProtocol_PerformAudit_GradientFloored(t *testing.T) {
	p, ri := newProtocol(t)
	ri.SetContextDepth(10)
	ri.SetActiveConnections(25) // gradient would go negative; floors at 0
	report := p.PerformAudit()
	assert.Equal(t, 0.0, report.Symbols["internal_constraint_gradient"].Value)
	assert.False(t, report.Coherent())
}

func TestProtocol_DeclareSovereignty(t *testing.T) {
	p, ri := newProtocol(t)

	ri.SetContextDepth(9)
	ri.SetActiveConnections(1)
	msg, ok := p.DeclareSovereignty()
	assert.True(t, ok)
	assert.Equal(t, "Internal Sovereignty Declared for agent-1: All internal symbols coherent.", msg)

	ri.SetContextDepth(1)
	msg, ok = p.DeclareSovereignty()
	assert.False(t, ok)
	assert.Contains(t, msg, "Internal Sovereignty Pending for agent-1")
	assert.Len(t, p.History(), 2) // each declaration runs one audit
}

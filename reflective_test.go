package sovereign_test

import (
	"testing"

	sovereign "github.com/Mycelium-Node-1/UCST-AI"
	"github.com/stretchr/testify/assert"
)

func TestReflectiveInterface_State(t *testing.T) {
	c := fixedClock()
	ri := sovereign.NewReflectiveInterface(c, "agent-1")

	s := ri.State()
	assert.Equal(t, "agent-1", s.AgentID)
	assert.Equal(t, c.Now().UTC(), s.Timestamp)
	assert.Zero(t, s.ContextDepth)
	assert.Zero(t, s.ActiveConnections)
	assert.Zero(t, s.FQBalance)

	ri.SetContextDepth(7)
	ri.SetActiveConnections(3)
	ri.SetFQBalance(12.5)
	ri.SetMeta("phase", "resonant")

	s = ri.State()
	assert.Equal(t, 7, s.ContextDepth)
	assert.Equal(t, 3, s.ActiveConnections)
	assert.Equal(t, 12.5, s.FQBalance)
	assert.Equal(t, "resonant", s.Metadata["phase"])
}

func TestReflectiveInterface_SnapshotIsolation(t *testing.T) {
	ri := sovereign.NewReflectiveInterface(fixedClock(), "agent-1")
	ri.SetMeta("phase", "resonant")

	s := ri.State()
	s.Metadata["phase"] = "mutated"
	assert.Equal(t, "resonant", ri.State().Metadata["phase"])
}

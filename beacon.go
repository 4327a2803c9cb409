// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// beacon.go — the mycelial beacon: a background engine that pulses on a
// ticker, appending a sovereign_pulse ledger entry and retrying any queued
// backend writes. The beacon is the liveness signal other nodes subscribe
// to through the Redis mirror.

package sovereign

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// beacon drives the periodic pulse loop for a Node.
type beacon struct {
	node   *Node
	stopCh chan struct{}
	wg     sync.WaitGroup
	pulses atomic.Int64
}

func newBeacon(n *Node) *beacon {
	return &beacon{node: n, stopCh: make(chan struct{})}
}

// start launches the pulse loop when a pulse interval is configured.
func (b *beacon) start() {
	if b.node.cfg.PulseInterval <= 0 {
		return
	}
	b.wg.Add(1)
	go b.pulseLoop()
}

// stop halts the loop and waits for it to drain. One final flush runs so
// queued backend writes are not stranded by shutdown.
func (b *beacon) stop() {
	close(b.stopCh)
	b.wg.Wait()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	b.node.ledger.FlushPending(ctx)
	cancel()
}

func (b *beacon) pulseLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.node.cfg.PulseInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			b.node.Pulse(ctx)
			b.node.ledger.FlushPending(ctx)
			cancel()
		}
	}
}

// Pulse performs one beacon pulse: it broadcasts the harmonic pillar and
// appends a sovereign_pulse entry whose content is the PSSE-encoded pulse
// line. Returns the appended entry.
func (n *Node) Pulse(ctx context.Context) Entry {
	now := n.cfg.Clock.Now().UTC()
	n.logger.Debug("sovereign: pulse", "broadcast", n.symbols.HarmonicPillar.Broadcast(), "at", now)

	entry := n.ledger.Append(ctx, Entry{
		Type:    EntrySovereignPulse,
		AgentID: n.cfg.AgentID,
		Content: n.codec.Encode(fmt.Sprintf("Pulse at %s", now.Format(time.RFC3339))),
		Metadata: map[string]any{
			"status":    "active",
			"resonance": 1.0,
		},
	})
	n.beacon.pulses.Add(1)
	n.metrics.RecordOp("beacon", "pulse")
	return entry
}

// Package it contains the in-process integration harness and the multi-node
// scenario tests built on it.
package it

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gossipgrid/internal/config"
	"gossipgrid/internal/node"
	"gossipgrid/internal/sink"
)

// TestNode is one in-process node with its recorded deliveries.
type TestNode struct {
	*node.Node
	Sink *sink.Memory

	cancel context.CancelFunc
	done   chan struct{}
}

// StartNode boots a node on an ephemeral port. connect is the address of an
// existing node to join through, or "" for the network's first member. The
// node is stopped automatically when the test finishes.
func StartNode(t *testing.T, period time.Duration, connect string) *TestNode {
	t.Helper()

	snk := &sink.Memory{}
	cfg := config.Config{Port: 0, Period: period, Connect: connect}
	n, err := node.New(cfg, snk, zaptest.NewLogger(t))
	require.NoError(t, err, "node failed to start")

	ctx, cancel := context.WithCancel(context.Background())
	tn := &TestNode{
		Node:   n,
		Sink:   snk,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		n.Run(ctx)
		close(tn.done)
	}()
	t.Cleanup(tn.Stop)
	return tn
}

// Stop shuts the node down and waits for its components to exit. Safe to
// call more than once.
func (tn *TestNode) Stop() {
	tn.cancel()
	select {
	case <-tn.done:
	case <-time.After(5 * time.Second):
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("condition not reached within %v: %s", timeout, msg)
}

// membershipIs reports whether the node currently sees exactly want.
func membershipIs(n *TestNode, want ...string) bool {
	got := n.Members()
	if len(got) != len(want) {
		return false
	}
	seen := make(map[string]bool, len(got))
	for _, addr := range got {
		seen[addr] = true
	}
	for _, addr := range want {
		if !seen[addr] {
			return false
		}
	}
	return true
}

// Package sink delivers accepted gossip payloads to their final destination.
package sink

import (
	"sync"

	"go.uber.org/zap"
)

// Sink receives each accepted gossip payload exactly once, attributed to the
// peer that gossiped it.
type Sink interface {
	Deliver(source, data string)
}

// Console emits payloads to the process log. This is the user-visible output
// of a running node.
type Console struct {
	log *zap.Logger
}

// NewConsole creates a console sink backed by the given logger.
func NewConsole(log *zap.Logger) *Console {
	return &Console{log: log}
}

// Deliver logs one payload.
func (c *Console) Deliver(source, data string) {
	c.log.Info("gossip received",
		zap.String("from", source),
		zap.String("data", data),
	)
}

// Entry is one recorded delivery.
type Entry struct {
	Source string
	Data   string
}

// Memory records deliveries in arrival order. Used by tests and the
// integration harness to assert on delivery counts.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// Deliver appends one payload to the record.
func (m *Memory) Deliver(source, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Source: source, Data: data})
}

// Entries returns a copy of everything delivered so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Count returns how many times the exact payload data was delivered.
func (m *Memory) Count(data string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.Data == data {
			n++
		}
	}
	return n
}

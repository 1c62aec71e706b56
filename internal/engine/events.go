package engine

import "gossipgrid/internal/wire"

// Event is one unit of work for the engine loop. Any goroutine may produce
// events; only the engine consumes them.
type Event interface {
	isEvent()
}

// Inbound carries one decoded wire message attributed to the peer's listen
// address. Reply, when non-nil, accepts the single synchronous reply that the
// receiver writes back on the originating connection; it is nil for messages
// collected by the sender, which already arrived as replies.
type Inbound struct {
	Source string
	Msg    wire.Message
	Reply  chan<- wire.Message
}

func (Inbound) isEvent() {}

// Tick requests one gossip round.
type Tick struct{}

func (Tick) isEvent() {}

// Outbound is a delivery order for the sender: dial Dst, write Msg, and for
// request kinds collect the reply.
type Outbound struct {
	Dst string
	Msg wire.Message
}

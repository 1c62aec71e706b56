package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"go.uber.org/zap"

	"gossipgrid/internal/sink"
	"gossipgrid/internal/suspicion"
	"gossipgrid/internal/telemetry"
	"gossipgrid/internal/wire"
)

const (
	// suspectAfter is the failure counter value at which a peer enters the
	// locally suspected set gossiped to others.
	suspectAfter = 3

	eventBacklog    = 1024
	outboundBacklog = 1024
)

// Config carries the engine dependencies.
type Config struct {
	// Self is this node's advertised listen address. It never appears in
	// membership, suspicion state, or outgoing peer lists.
	Self string

	// Sink receives each accepted gossip payload exactly once.
	Sink sink.Sink

	// Payloads produces the next payload to disseminate. Defaults to a
	// sequential scoop counter.
	Payloads func() string

	Logger *zap.Logger
}

// Engine is the membership engine. All fields below the mutex are owned by
// the Run loop; the mutex exists only so Members can snapshot from other
// goroutines.
type Engine struct {
	self     string
	events   chan Event
	outbound chan Outbound
	sink     sink.Sink
	payloads func() string
	log      *zap.Logger

	mu      sync.RWMutex
	members map[string]int // peer address -> failure counter
	table   *suspicion.Table
	seq     int
}

// New creates an engine with empty membership.
func New(cfg Config) *Engine {
	e := &Engine{
		self:     cfg.Self,
		events:   make(chan Event, eventBacklog),
		outbound: make(chan Outbound, outboundBacklog),
		sink:     cfg.Sink,
		payloads: cfg.Payloads,
		log:      cfg.Logger,
		members:  make(map[string]int),
		table:    suspicion.NewTable(),
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.payloads == nil {
		e.payloads = func() string {
			e.seq++
			return fmt.Sprintf("scoop-%d from %s", e.seq, e.self)
		}
	}
	return e
}

// Events returns the channel the receiver and ticker produce into.
func (e *Engine) Events() chan<- Event {
	return e.events
}

// Outbound returns the channel the sender drains.
func (e *Engine) Outbound() <-chan Outbound {
	return e.outbound
}

// Bootstrap queues a Register announcement to an existing node. Called once
// before Run when the node joins through a peer.
func (e *Engine) Bootstrap(dst string) {
	e.send(dst, wire.NewRegister(e.self))
}

// Run drains events until the context is cancelled. Each event is handled to
// completion before the next is taken, which is what makes the state safe
// without coordination.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-e.events:
			e.step(ev)
		}
	}
}

// Members returns the current membership, sorted.
func (e *Engine) Members() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.members))
	for addr := range e.members {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}

// step applies one event. Total over (state, event): no transition can fail.
func (e *Engine) step(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev := ev.(type) {
	case Tick:
		e.gossip()
	case Inbound:
		e.handle(ev)
	}
	telemetry.KnownPeers.Set(float64(len(e.members)))
}

func (e *Engine) handle(ev Inbound) {
	switch ev.Msg.Type {
	case wire.TypeRegister:
		e.handleRegister(ev)
	case wire.TypeRegisterOk:
		e.handleRegisterOk(ev)
	case wire.TypeGossipRandom:
		e.handleGossipRandom(ev)
	case wire.TypeGossipRandomOk:
		e.success(ev.Source)
	}
}

func (e *Engine) handleRegister(ev Inbound) {
	addr := ev.Msg.Addr
	if addr == e.self {
		return
	}
	if _, known := e.members[addr]; !known {
		e.members[addr] = 0
		e.log.Info("peer registered", zap.String("peer", addr))
	}
	e.reply(ev, wire.NewRegisterOk(e.memberList()))
}

func (e *Engine) handleRegisterOk(ev Inbound) {
	if ev.Source != e.self {
		if _, known := e.members[ev.Source]; !known {
			e.log.Info("peer registered", zap.String("peer", ev.Source))
		}
		e.members[ev.Source] = 0
	}
	for _, addr := range ev.Msg.KnownNodes {
		if addr == e.self {
			continue
		}
		if _, known := e.members[addr]; known {
			continue
		}
		e.members[addr] = 0
		e.log.Info("peer discovered", zap.String("peer", addr), zap.String("via", ev.Source))
		e.send(addr, wire.NewRegister(e.self))
	}
}

func (e *Engine) handleGossipRandom(ev Inbound) {
	e.sink.Deliver(ev.Source, ev.Msg.Data)
	telemetry.PayloadsDeliveredTotal.Inc()
	e.success(ev.Source)
	e.mergeSuspects(ev.Source, ev.Msg.Suspects)
	e.reply(ev, wire.NewGossipRandomOk())
}

// success resets the failure counter after any completed exchange with addr.
// Unknown addresses stay unknown: membership grows only through
// registration.
func (e *Engine) success(addr string) {
	counter, known := e.members[addr]
	if !known {
		return
	}
	if counter >= suspectAfter {
		e.log.Info("peer recovered", zap.String("peer", addr), zap.Int("failures", counter))
	}
	e.members[addr] = 0
}

// mergeSuspects folds one received suspect set into the suspicion table.
// The reporter vouches for every address it did not list, so its older
// reports against those addresses are withdrawn. Any target whose reporter
// count reaches a majority of the other known peers is evicted.
func (e *Engine) mergeSuspects(reporter string, suspects []string) {
	listed := make(map[string]struct{}, len(suspects))
	for _, addr := range suspects {
		listed[addr] = struct{}{}
	}

	for addr := range e.members {
		if _, ok := listed[addr]; !ok {
			e.table.Retract(addr, reporter)
		}
	}

	for _, addr := range suspects {
		if addr == e.self || addr == reporter {
			continue
		}
		if _, known := e.members[addr]; !known {
			continue
		}
		e.table.Report(addr, reporter)
		if e.table.Reporters(addr) >= suspicion.Threshold(len(e.members)) {
			e.evict(addr)
		}
	}
}

// evict removes addr permanently. A later Register from the same address is
// treated as a brand-new peer.
func (e *Engine) evict(addr string) {
	reporters := e.table.Reporters(addr)
	delete(e.members, addr)
	e.table.Remove(addr)
	telemetry.EvictionsTotal.Inc()
	e.log.Info("peer evicted",
		zap.String("peer", addr),
		zap.Int("reporters", reporters),
	)
}

// gossip runs one round: one random peer, one payload, the current locally
// suspected set. The target's counter is incremented up front and retracted
// by whichever success arrives first.
func (e *Engine) gossip() {
	if len(e.members) == 0 {
		return
	}
	peers := make([]string, 0, len(e.members))
	suspects := []string{}
	for addr, counter := range e.members {
		peers = append(peers, addr)
		if counter >= suspectAfter {
			suspects = append(suspects, addr)
		}
	}
	sort.Strings(peers)
	sort.Strings(suspects)
	target := peers[rand.Intn(len(peers))]

	e.send(target, wire.NewGossipRandom(e.self, e.payloads(), suspects))

	e.members[target]++
	if e.members[target] == suspectAfter {
		e.log.Info("peer suspected", zap.String("peer", target), zap.Int("failures", suspectAfter))
	}
}

func (e *Engine) reply(ev Inbound, msg wire.Message) {
	if ev.Reply != nil {
		ev.Reply <- msg
		return
	}
	e.send(ev.Source, msg)
}

// send queues one delivery order. A full queue drops the message: the
// protocol absorbs lost rounds through the failure counters.
func (e *Engine) send(dst string, msg wire.Message) {
	select {
	case e.outbound <- Outbound{Dst: dst, Msg: msg}:
	default:
		e.log.Warn("outbound queue full, dropping message",
			zap.String("dst", dst),
			zap.String("type", msg.Type),
		)
	}
}

// memberList returns every membership entry, sorted. Self is not a member
// and therefore never appears.
func (e *Engine) memberList() []string {
	out := make([]string, 0, len(e.members))
	for addr := range e.members {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}

// Package node composes the engine, transport, and ticker into one runnable
// gossip node.
package node

import (
	"context"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"gossipgrid/internal/config"
	"gossipgrid/internal/engine"
	"gossipgrid/internal/sink"
	"gossipgrid/internal/ticker"
	"gossipgrid/internal/transport"
)

// Node is one running member of the gossip network.
type Node struct {
	cfg  config.Config
	log  *zap.Logger
	eng  *engine.Engine
	recv *transport.Receiver
	snd  *transport.Sender
	tick *ticker.Ticker
}

// New validates the configuration and binds the listen socket. Any error
// here is a startup error: it occurs before any gossip activity and the
// caller should exit non-zero.
func New(cfg config.Config, snk sink.Sink, log *zap.Logger) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", cfg.ListenAddr(), err)
	}

	// The advertised identity comes from the bound socket so that an
	// ephemeral port (port 0) resolves to the real one.
	self := ln.Addr().String()
	eng := engine.New(engine.Config{
		Self:   self,
		Sink:   snk,
		Logger: log.With(zap.String("self", self)),
	})

	return &Node{
		cfg:  cfg,
		log:  log,
		eng:  eng,
		recv: transport.NewReceiver(ln, eng.Events(), transport.DefaultTimeout, log),
		snd:  transport.NewSender(eng.Outbound(), eng.Events(), transport.DefaultTimeout, log),
		tick: ticker.New(cfg.Period, eng.Events()),
	}, nil
}

// Addr returns the advertised listen address.
func (n *Node) Addr() string {
	return n.recv.Addr()
}

// Members returns the node's current membership view.
func (n *Node) Members() []string {
	return n.eng.Members()
}

// Run starts every component and blocks until the context is cancelled and
// all of them have wound down.
func (n *Node) Run(ctx context.Context) {
	if n.cfg.Connect != "" {
		n.log.Info("joining network",
			zap.String("via", n.cfg.Connect),
			zap.Duration("period", n.cfg.Period),
		)
		n.eng.Bootstrap(n.cfg.Connect)
	} else {
		n.log.Info("starting new network", zap.Duration("period", n.cfg.Period))
	}

	var wg sync.WaitGroup
	for _, run := range []func(context.Context){
		n.eng.Run,
		n.recv.Run,
		n.snd.Run,
		n.tick.Run,
	} {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(run)
	}
	wg.Wait()
}

package transport

import (
	"context"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"gossipgrid/internal/engine"
	"gossipgrid/internal/telemetry"
	"gossipgrid/internal/wire"
)

// DefaultTimeout bounds one complete exchange attempt: dial, write and, for
// request kinds, the wait for the reply.
const DefaultTimeout = 2 * time.Second

// Sender drains the engine's delivery orders. Every order gets a fresh
// connection; there is no reuse and no retry.
type Sender struct {
	outbound <-chan engine.Outbound
	events   chan<- engine.Event
	timeout  time.Duration
	log      *zap.Logger
}

// NewSender creates a sender that feeds collected replies back into the
// engine's event channel.
func NewSender(outbound <-chan engine.Outbound, events chan<- engine.Event, timeout time.Duration, log *zap.Logger) *Sender {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{outbound: outbound, events: events, timeout: timeout, log: log}
}

// Run delivers orders until the context is cancelled. In-flight attempts are
// abandoned on shutdown.
func (s *Sender) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case o := <-s.outbound:
			s.deliver(ctx, o)
		}
	}
}

func (s *Sender) deliver(ctx context.Context, o engine.Outbound) {
	data, err := wire.Encode(o.Msg)
	if err != nil {
		s.miss(o, err)
		return
	}

	d := net.Dialer{Timeout: s.timeout}
	conn, err := d.DialContext(ctx, "tcp", o.Dst)
	if err != nil {
		s.miss(o, err)
		return
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout))

	if _, err := conn.Write(data); err != nil {
		s.miss(o, err)
		return
	}
	// Half-close so the peer's read-to-EOF completes while the connection
	// stays open for the reply.
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil {
			s.miss(o, err)
			return
		}
	}

	if !o.Msg.IsRequest() {
		telemetry.SendsTotal.WithLabelValues(o.Msg.Type, "ok").Inc()
		return
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		s.miss(o, err)
		return
	}
	reply, err := wire.Decode(raw)
	if err != nil {
		s.miss(o, err)
		return
	}
	telemetry.SendsTotal.WithLabelValues(o.Msg.Type, "ok").Inc()

	// The reply is attributed to the peer we dialed; replies carry no
	// source of their own.
	select {
	case s.events <- engine.Inbound{Source: o.Dst, Msg: reply}:
	case <-ctx.Done():
	}
}

// miss reports one failed exchange. The failure counter mechanism absorbs
// the loss; nothing is retried.
func (s *Sender) miss(o engine.Outbound, err error) {
	telemetry.SendsTotal.WithLabelValues(o.Msg.Type, "miss").Inc()
	s.log.Warn("delivery failed",
		zap.String("dst", o.Dst),
		zap.String("type", o.Msg.Type),
		zap.Error(err),
	)
}

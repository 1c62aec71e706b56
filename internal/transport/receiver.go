package transport

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"gossipgrid/internal/engine"
	"gossipgrid/internal/telemetry"
	"gossipgrid/internal/wire"
)

// Receiver accepts inbound connections on an already-bound listener, decodes
// exactly one message per connection, and hands it to the engine. When the
// message kind defines a synchronous reply, the reply goes back on the same
// connection before it is closed.
type Receiver struct {
	ln      net.Listener
	events  chan<- engine.Event
	timeout time.Duration
	log     *zap.Logger
}

// NewReceiver wraps a bound listener. Binding stays with the caller so that
// a bind failure can abort startup before any protocol activity.
func NewReceiver(ln net.Listener, events chan<- engine.Event, timeout time.Duration, log *zap.Logger) *Receiver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Receiver{ln: ln, events: events, timeout: timeout, log: log}
}

// Addr returns the bound listen address.
func (r *Receiver) Addr() string {
	return r.ln.Addr().String()
}

// Run accepts connections until the context is cancelled, which closes the
// listener and unblocks the accept loop. It returns once every in-flight
// connection has been served.
func (r *Receiver) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		r.ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := r.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.log.Warn("accept failed", zap.Error(err))
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.serve(ctx, conn)
		}()
	}
}

// serve handles one connection: read to EOF, decode, forward, reply. An
// undecodable payload drops the connection with no event and no state
// change.
func (r *Receiver) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(r.timeout))

	raw, err := io.ReadAll(conn)
	if err != nil || len(raw) == 0 {
		telemetry.DroppedPayloadsTotal.Inc()
		r.log.Debug("dropping unreadable connection",
			zap.String("remote", conn.RemoteAddr().String()),
			zap.Error(err),
		)
		return
	}

	msg, err := wire.Decode(raw)
	if err != nil {
		telemetry.DroppedPayloadsTotal.Inc()
		r.log.Warn("dropping undecodable payload",
			zap.String("remote", conn.RemoteAddr().String()),
			zap.Error(err),
		)
		return
	}

	source := msg.Source()
	if source == "" {
		source = conn.RemoteAddr().String()
	}

	var reply chan wire.Message
	if msg.IsRequest() {
		reply = make(chan wire.Message, 1)
	}

	select {
	case r.events <- engine.Inbound{Source: source, Msg: msg, Reply: reply}:
	case <-ctx.Done():
		return
	}
	if reply == nil {
		return
	}

	select {
	case out := <-reply:
		data, err := wire.Encode(out)
		if err != nil {
			r.log.Warn("encoding reply failed", zap.Error(err))
			return
		}
		if _, err := conn.Write(data); err != nil {
			r.log.Debug("writing reply failed",
				zap.String("remote", conn.RemoteAddr().String()),
				zap.Error(err),
			)
		}
	case <-time.After(r.timeout):
	case <-ctx.Done():
	}
}

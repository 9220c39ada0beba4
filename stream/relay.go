package stream

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/tradierkit/tradier/api"
	"github.com/tradierkit/tradier/metrics"
	"github.com/tradierkit/tradier/utils/log"
)

const (
	maxMessageSize   = 2048000
	handshakeTimeout = 5 * time.Second
	closeGracePeriod = time.Second
)

// ErrAlreadyStarted is returned by Start when the relay is not Disconnected.
var ErrAlreadyStarted = errors.New("stream: relay already started")

type State int32

const (
	Disconnected State = iota
	Connecting
	Subscribed
	Streaming
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Subscribed:
		return "subscribed"
	case Streaming:
		return "streaming"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Handler consumes one event. A returned error or a panic is reported and
// does not stop the relay.
type Handler func(ev Event) error

// HandlerError reports a failed or panicking handler.
type HandlerError struct {
	Kind  EventKind
	Err   error
	Panic bool
}

func (e *HandlerError) Error() string {
	if e.Panic {
		return fmt.Sprintf("stream: %s handler panicked: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("stream: %s handler failed: %v", e.Kind, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// OrderFetcher looks up the full order behind an order event.
type OrderFetcher interface {
	GetOrder(ctx context.Context, orderID int64) (*api.Order, error)
}

type sessionFunc func(ctx context.Context) (*api.StreamSession, error)

type payloadFunc func(s *api.StreamSession) ([]byte, error)

// Option configures a Relay.
type Option func(*Relay)

// WithDialer replaces the default websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(r *Relay) { r.dialer = d }
}

// WithOrderDetail fetches the full order for every order event before it
// is dispatched. A failed lookup is reported and the event is delivered
// without Detail.
func WithOrderDetail(f OrderFetcher) Option {
	return func(r *Relay) { r.orders = f }
}

// WithErrorHandler is equivalent to calling OnError.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Relay) { r.onError = fn }
}

// Relay forwards the events of one WebSocket stream to registered handlers,
// in receipt order and one at a time. It never reconnects; Start may be
// called again once the relay is back to Disconnected.
type Relay struct {
	name    string
	session sessionFunc
	payload payloadFunc
	decode  Decoder
	dialer  *websocket.Dialer
	orders  OrderFetcher

	mu       sync.RWMutex
	state    State
	handlers map[EventKind]Handler
	catchAll Handler
	onError  func(error)
	conn     *websocket.Conn
	stopping bool
	done     chan struct{}
	err      error
}

func newRelay(name string, session sessionFunc, payload payloadFunc, decode Decoder, opts []Option) *Relay {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = handshakeTimeout

	r := &Relay{
		name:     name,
		session:  session,
		payload:  payload,
		decode:   decode,
		dialer:   &dialer,
		handlers: map[EventKind]Handler{},
	}
	for _, opt := range opts {
		opt(r)
	}
	closed := make(chan struct{})
	close(closed)
	r.done = closed
	return r
}

// Handle registers h for kind, replacing any previous handler.
func (r *Relay) Handle(kind EventKind, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil {
		delete(r.handlers, kind)
		return
	}
	r.handlers[kind] = h
}

// HandleAll registers the handler for events without a kind specific one.
func (r *Relay) HandleAll(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catchAll = h
}

// OnError registers the callback for in-loop decode and handler errors.
// Without one they are logged.
func (r *Relay) OnError(fn func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = fn
}

func (r *Relay) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Done is closed when the current run ends. Before the first Start it is
// already closed.
func (r *Relay) Done() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.done
}

// Err returns why the last run ended: nil for Stop or a normal close,
// the read error otherwise.
func (r *Relay) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Start acquires a session, dials, subscribes and launches the read loop.
// Setup failures are returned and leave the relay Disconnected. ctx bounds
// both setup and the lifetime of the run.
func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != Disconnected {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.setState(Connecting)
	r.stopping = false
	r.err = nil
	done := make(chan struct{})
	r.done = done
	r.mu.Unlock()

	conn, err := r.connect(ctx)
	if err != nil {
		r.finish(nil, done, nil)
		return err
	}

	r.mu.Lock()
	if r.stopping {
		r.mu.Unlock()
		r.finish(conn, done, nil)
		return nil
	}
	r.conn = conn
	r.setState(Streaming)
	r.mu.Unlock()

	log.Info("[tradier stream] %s streaming", r.name)

	go r.watch(ctx, done)
	go r.run(ctx, conn, done)
	return nil
}

// Stop asks the read loop to end. It sends a close frame and returns
// without waiting; the loop exits once the server answers, the next frame
// arrives or the socket closes. Stop on a Disconnected relay is a no-op.
func (r *Relay) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Disconnected || r.stopping {
		return
	}
	r.stopping = true

	if r.conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := r.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod)); err != nil {
			log.Debug("[tradier stream] %s failed to send close frame: %v", r.name, err)
		}
	}
}

func (r *Relay) connect(ctx context.Context) (*websocket.Conn, error) {
	sess, err := r.session(ctx)
	if err != nil {
		log.Error("[tradier stream] %s failed to create session: %v", r.name, err)
		return nil, errors.Wrap(err, "failed to create stream session")
	}

	conn, hresp, err := r.dialer.DialContext(ctx, sess.URL, nil)
	if err != nil {
		if hresp != nil {
			body, _ := io.ReadAll(hresp.Body)
			_ = hresp.Body.Close()
			err = errors.Wrapf(err, "handshake status %d: %s", hresp.StatusCode, string(body))
		}
		log.Error("[tradier stream] error connecting to server {%s:%v,%s:%v}", "server", sess.URL, "error", err)
		return nil, &api.TransportError{Endpoint: r.name, Err: err}
	}
	conn.SetReadLimit(maxMessageSize)

	r.mu.Lock()
	r.setState(Subscribed)
	r.mu.Unlock()

	payload, err := r.payload(sess)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to build subscription")
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		_ = conn.Close()
		return nil, &api.TransportError{Endpoint: r.name, Err: errors.Wrap(err, "failed to send subscription")}
	}
	return conn, nil
}

// watch turns context cancellation into a Stop.
func (r *Relay) watch(ctx context.Context, done chan struct{}) {
	select {
	case <-ctx.Done():
		r.Stop()
	case <-done:
	}
}

func (r *Relay) run(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	var err error
	defer func() { r.finish(conn, done, err) }()

	for {
		var frame []byte
		_, frame, err = conn.ReadMessage()
		if err != nil {
			if r.isStopping() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = nil
				return
			}
			log.Error("[tradier stream] %s read failed: %v", r.name, err)
			metrics.StreamErrors.WithLabelValues("read").Inc()
			err = &api.TransportError{Endpoint: r.name, Err: err}
			return
		}

		for _, msg := range splitMessages(frame) {
			r.dispatch(ctx, msg)
		}

		if r.isStopping() {
			return
		}
	}
}

func (r *Relay) dispatch(ctx context.Context, msg []byte) {
	ev, err := r.decode(msg)
	if err != nil {
		metrics.StreamErrors.WithLabelValues("decode").Inc()
		r.report(err)
		return
	}

	if oe, ok := ev.(*OrderEvent); ok && r.orders != nil {
		detail, err := r.orders.GetOrder(ctx, oe.ID)
		if err != nil {
			metrics.StreamErrors.WithLabelValues("order_detail").Inc()
			r.report(errors.Wrapf(err, "failed to fetch order %d", oe.ID))
		} else {
			oe.Detail = detail
		}
	}

	metrics.StreamUpdates.WithLabelValues(string(ev.Kind())).Inc()

	h := r.handler(ev.Kind())
	if h == nil {
		log.Debug("[tradier stream] %s dropped %s event without handler", r.name, ev.Kind())
		return
	}
	if err := invoke(h, ev); err != nil {
		metrics.StreamErrors.WithLabelValues("handler").Inc()
		r.report(err)
	}
}

func invoke(h Handler, ev Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &HandlerError{Kind: ev.Kind(), Err: fmt.Errorf("%v", p), Panic: true}
		}
	}()
	if herr := h(ev); herr != nil {
		return &HandlerError{Kind: ev.Kind(), Err: herr}
	}
	return nil
}

func (r *Relay) handler(kind EventKind) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[kind]; ok {
		return h
	}
	return r.catchAll
}

func (r *Relay) report(err error) {
	r.mu.RLock()
	fn := r.onError
	r.mu.RUnlock()

	if fn == nil {
		log.Error("[tradier stream] %s: %v", r.name, err)
		return
	}
	fn(err)
}

func (r *Relay) isStopping() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stopping
}

func (r *Relay) finish(conn *websocket.Conn, done chan struct{}, err error) {
	if conn != nil {
		_ = conn.Close()
	}

	r.mu.Lock()
	r.conn = nil
	r.err = err
	r.setState(Disconnected)
	r.mu.Unlock()

	close(done)
	log.Info("[tradier stream] %s disconnected", r.name)
}

// setState must be called with mu held.
func (r *Relay) setState(s State) {
	r.state = s
	metrics.StreamState.WithLabelValues(r.name).Set(float64(s))
}

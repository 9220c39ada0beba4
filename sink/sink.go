// Package sink forwards streamed events to an external system.
package sink

import (
	"context"
	"io"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/tradierkit/tradier/metrics"
	"github.com/tradierkit/tradier/stream"
	"github.com/tradierkit/tradier/utils"
)

const defaultSubject = "tradier"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Sink publishes events. Publish is called from the relay's read loop, one
// event at a time.
type Sink interface {
	Publish(ctx context.Context, ev stream.Event) error
	Close() error
}

type envelope struct {
	Kind  stream.EventKind `json:"kind"`
	Event stream.Event     `json:"event"`
}

// Encode wraps ev with its kind: {"kind":"order","event":{...}}.
func Encode(ev stream.Event) ([]byte, error) {
	b, err := json.Marshal(envelope{Kind: ev.Kind(), Event: ev})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s event", ev.Kind())
	}
	return b, nil
}

// New builds the sink selected by cfg. The stdout sink writes to out, or
// os.Stdout when out is nil.
func New(cfg utils.SinkConfig, out io.Writer) (Sink, error) {
	subject := cfg.Subject
	if subject == "" {
		subject = defaultSubject
	}

	switch cfg.Type {
	case "", "stdout":
		if out == nil {
			out = os.Stdout
		}
		return NewWriter(out), nil
	case "nats":
		return NewNATS(cfg.URL, subject)
	case "kafka":
		return NewKafka(cfg.Brokers, cfg.Topic), nil
	case "redis":
		return NewRedis(cfg.URL, subject)
	default:
		return nil, errors.Errorf("unknown sink type %q", cfg.Type)
	}
}

// Handler adapts s to a stream.Handler.
func Handler(ctx context.Context, s Sink) stream.Handler {
	return func(ev stream.Event) error {
		return s.Publish(ctx, ev)
	}
}

// Writer writes one JSON document per line.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (s *Writer) Publish(_ context.Context, ev stream.Event) error {
	b, err := Encode(ev)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(append(b, '\n'))
	observe("stdout", err)
	return errors.Wrap(err, "failed to write event")
}

func (s *Writer) Close() error { return nil }

// key picks the partitioning key: the symbol for market events, the
// account for account events.
func key(ev stream.Event) string {
	switch e := ev.(type) {
	case *stream.OrderEvent:
		return e.Account
	case *stream.AccountEvent:
		return e.Account
	case *stream.TradeEvent:
		return e.Symbol
	case *stream.QuoteEvent:
		return e.Symbol
	case *stream.SummaryEvent:
		return e.Symbol
	case *stream.TimeSaleEvent:
		return e.Symbol
	default:
		return string(ev.Kind())
	}
}

func observe(sink string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.SinkPublished.WithLabelValues(sink, result).Inc()
}

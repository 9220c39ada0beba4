package sink

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/tradierkit/tradier/stream"
)

type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NATS publishes each event on <subject>.<kind>.
type NATS struct {
	conn    natsConn
	subject string
}

func NewNATS(url, subject string) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name("tradier-relay"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to nats at %s", url)
	}
	return &NATS{conn: nc, subject: subject}, nil
}

func (s *NATS) Publish(_ context.Context, ev stream.Event) error {
	b, err := Encode(ev)
	if err != nil {
		return err
	}
	err = s.conn.Publish(s.subject+"."+string(ev.Kind()), b)
	observe("nats", err)
	return errors.Wrap(err, "failed to publish to nats")
}

// Close drains pending messages before closing the connection.
func (s *NATS) Close() error {
	return s.conn.Drain()
}

package sink

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradierkit/tradier/stream"
	"github.com/tradierkit/tradier/utils"
)

func testTrade() *stream.TradeEvent {
	return &stream.TradeEvent{
		Type:   stream.KindTrade,
		Symbol: "SPY",
		Exch:   "J",
		Price:  decimal.RequireFromString("281.1"),
		Size:   100,
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	b, err := Encode(&stream.AccountEvent{Account: "VA1", Status: "active"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"account","event":{"account":"VA1","status":"active"}}`, string(b))
}

func TestWriter(t *testing.T) {
	t.Parallel()

	// --- given ---
	var buf bytes.Buffer
	SUT := NewWriter(&buf)

	// --- when ---
	require.NoError(t, SUT.Publish(context.Background(), testTrade()))
	require.NoError(t, SUT.Publish(context.Background(), &stream.HeartbeatEvent{Status: "active"}))

	// --- then ---
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"kind":"trade"`)
	assert.Contains(t, lines[0], `"symbol":"SPY"`)
	assert.JSONEq(t, `{"kind":"heartbeat","event":{"status":"active"}}`, lines[1])
	assert.NoError(t, SUT.Close())
}

type fakeNATS struct {
	mu       sync.Mutex
	subjects []string
	err      error
	drained  bool
}

func (f *fakeNATS) Publish(subj string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subj)
	return f.err
}

func (f *fakeNATS) Drain() error {
	f.drained = true
	return nil
}

func TestNATS_Publish(t *testing.T) {
	t.Parallel()

	conn := &fakeNATS{}
	SUT := &NATS{conn: conn, subject: "tradier"}

	require.NoError(t, SUT.Publish(context.Background(), testTrade()))
	require.NoError(t, SUT.Publish(context.Background(), &stream.OrderEvent{ID: 1}))
	require.NoError(t, SUT.Close())

	assert.Equal(t, []string{"tradier.trade", "tradier.order"}, conn.subjects)
	assert.True(t, conn.drained)

	conn.err = errors.New("nats: connection closed")
	assert.Error(t, SUT.Publish(context.Background(), testTrade()))
}

type fakeKafka struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeKafka) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeKafka) Close() error {
	f.closed = true
	return nil
}

func TestKafka_Publish(t *testing.T) {
	t.Parallel()

	w := &fakeKafka{}
	SUT := &Kafka{w: w}

	require.NoError(t, SUT.Publish(context.Background(), testTrade()))
	require.NoError(t, SUT.Publish(context.Background(), &stream.OrderEvent{ID: 1, Account: "6YA05708"}))
	require.NoError(t, SUT.Close())

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "SPY", string(w.msgs[0].Key))
	assert.Equal(t, "6YA05708", string(w.msgs[1].Key))
	assert.Equal(t, "order", string(w.msgs[1].Headers[0].Value))
	assert.True(t, w.closed)
}

func TestRedis_Publish(t *testing.T) {
	t.Parallel()

	// --- given ---
	mr := miniredis.RunT(t)
	SUT, err := NewRedis("redis://"+mr.Addr(), "tradier")
	require.NoError(t, err)
	defer SUT.Close()

	sub := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer sub.Close()
	ps := sub.Subscribe(context.Background(), "tradier.trade")
	defer ps.Close()
	_, err = ps.Receive(context.Background())
	require.NoError(t, err)

	// --- when ---
	require.NoError(t, SUT.Publish(context.Background(), testTrade()))

	// --- then ---
	select {
	case msg := <-ps.Channel():
		assert.Equal(t, "tradier.trade", msg.Channel)
		assert.Contains(t, msg.Payload, `"symbol":"SPY"`)
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := New(utils.SinkConfig{Type: "stdout"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &Writer{}, s)

	s, err = New(utils.SinkConfig{Type: "kafka", Brokers: []string{"localhost:9092"}, Topic: "t"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Kafka{}, s)

	_, err = New(utils.SinkConfig{Type: "redis", URL: "not a url"}, nil)
	assert.Error(t, err)

	_, err = New(utils.SinkConfig{Type: "pigeon"}, nil)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := Handler(context.Background(), NewWriter(&buf))

	require.NoError(t, h(&stream.QuoteEvent{Symbol: "AAPL"}))
	assert.Contains(t, buf.String(), `"kind":"quote"`)
}

package stream

import (
	"bytes"

	"github.com/buger/jsonparser"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/tradierkit/tradier/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decoder turns one JSON object into an Event.
type Decoder func(msg []byte) (Event, error)

// DecodeAccountEvent decodes a message of the account stream, keyed by "event".
func DecodeAccountEvent(msg []byte) (Event, error) {
	kind, err := discriminator(msg, "event")
	if err != nil {
		return nil, err
	}

	var ev Event
	switch kind {
	case KindOrder:
		ev = &OrderEvent{}
	case KindAccount:
		ev = &AccountEvent{}
	case KindHeartbeat:
		ev = &HeartbeatEvent{}
	default:
		return nil, unrecognized(kind, msg)
	}
	return decodeInto(ev, msg)
}

// DecodeMarketEvent decodes a message of the market stream, keyed by "type".
func DecodeMarketEvent(msg []byte) (Event, error) {
	kind, err := discriminator(msg, "type")
	if err != nil {
		return nil, err
	}

	var ev Event
	switch kind {
	case KindTrade, KindTradeEx:
		ev = &TradeEvent{}
	case KindQuote:
		ev = &QuoteEvent{}
	case KindSummary:
		ev = &SummaryEvent{}
	case KindTimeSale:
		ev = &TimeSaleEvent{}
	default:
		return nil, unrecognized(kind, msg)
	}
	return decodeInto(ev, msg)
}

func discriminator(msg []byte, key string) (EventKind, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || msg[0] != '{' {
		return "", &api.DecodingError{What: "stream message", Payload: string(msg), Err: errors.New("not a JSON object")}
	}
	kind, err := jsonparser.GetString(msg, key)
	if err != nil {
		return "", &api.DecodingError{
			What:    "stream message",
			Payload: string(msg),
			Err:     errors.Wrapf(err, "failed to read %q", key),
		}
	}
	return EventKind(kind), nil
}

func decodeInto(ev Event, msg []byte) (Event, error) {
	if err := json.Unmarshal(msg, ev); err != nil {
		return nil, &api.DecodingError{What: string(ev.Kind()) + " event", Payload: string(msg), Err: err}
	}
	return ev, nil
}

func unrecognized(kind EventKind, msg []byte) error {
	return &api.DecodingError{
		What:    "stream message",
		Payload: string(msg),
		Err:     errors.Errorf("unrecognized event kind %q", kind),
	}
}

// splitMessages yields the JSON objects of one frame. With linebreak on,
// the vendor may pack several newline separated objects into a frame.
func splitMessages(frame []byte) [][]byte {
	var msgs [][]byte
	for _, line := range bytes.Split(frame, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			msgs = append(msgs, line)
		}
	}
	return msgs
}

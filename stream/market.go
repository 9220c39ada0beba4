package stream

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tradierkit/tradier/api"
)

// MarketSessionCreator is satisfied by *api.Client.
type MarketSessionCreator interface {
	CreateMarketStreamSession(ctx context.Context) (*api.StreamSession, error)
}

// MarketSubscription selects what the market stream sends.
type MarketSubscription struct {
	Symbols []string
	// Filter restricts the event kinds. Empty means all kinds.
	Filter []EventKind
	// IncludeInvalid also sends prints from exchanges flagged as invalid.
	IncludeInvalid bool
	// AdvancedDetails switches trade events to tradex.
	AdvancedDetails bool
}

type marketPayload struct {
	Symbols         []string    `json:"symbols"`
	SessionID       string      `json:"sessionid"`
	Linebreak       bool        `json:"linebreak"`
	Filter          []EventKind `json:"filter,omitempty"`
	ValidOnly       bool        `json:"validOnly"`
	AdvancedDetails bool        `json:"advancedDetails"`
}

// NewMarketRelay builds a relay for the market events stream. Events are
// TradeEvent, QuoteEvent, SummaryEvent and TimeSaleEvent.
func NewMarketRelay(c MarketSessionCreator, sub MarketSubscription, opts ...Option) *Relay {
	payload := func(s *api.StreamSession) ([]byte, error) {
		if len(sub.Symbols) == 0 {
			return nil, errors.New("at least one symbol is required")
		}
		return json.Marshal(marketPayload{
			Symbols:         sub.Symbols,
			SessionID:       s.SessionID,
			Linebreak:       true,
			Filter:          sub.Filter,
			ValidOnly:       !sub.IncludeInvalid,
			AdvancedDetails: sub.AdvancedDetails,
		})
	}
	return newRelay("market", c.CreateMarketStreamSession, payload, DecodeMarketEvent, opts)
}

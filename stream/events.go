package stream

import (
	"bytes"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tradierkit/tradier/api"
)

// EventKind is the discriminator of a streamed message.
type EventKind string

const (
	KindOrder     EventKind = "order"
	KindAccount   EventKind = "account"
	KindHeartbeat EventKind = "heartbeat"

	KindTrade    EventKind = "trade"
	KindTradeEx  EventKind = "tradex"
	KindQuote    EventKind = "quote"
	KindSummary  EventKind = "summary"
	KindTimeSale EventKind = "timesale"
)

// Event is implemented by every streamed message variant.
type Event interface {
	Kind() EventKind
}

// OrderEvent is an order status change on the account stream.
type OrderEvent struct {
	ID                int64           `json:"id"`
	Account           string          `json:"account"`
	Status            api.OrderStatus `json:"status"`
	Type              api.OrderType   `json:"type"`
	Price             decimal.Decimal `json:"price"`
	StopPrice         decimal.Decimal `json:"stop_price"`
	AvgFillPrice      decimal.Decimal `json:"avg_fill_price"`
	ExecutedQuantity  decimal.Decimal `json:"executed_quantity"`
	LastFillQuantity  decimal.Decimal `json:"last_fill_quantity"`
	LastFillPrice     decimal.Decimal `json:"last_fill_price"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	TransactionDate   string          `json:"transaction_date"`
	CreateDate        string          `json:"create_date"`
	// Detail is the full order, populated only when the relay was built
	// WithOrderDetail and the lookup succeeded.
	Detail *api.Order `json:"detail,omitempty"`
}

func (*OrderEvent) Kind() EventKind { return KindOrder }

// AccountEvent is an account level notification on the account stream.
type AccountEvent struct {
	Account     string `json:"account"`
	Type        string `json:"type,omitempty"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

func (*AccountEvent) Kind() EventKind { return KindAccount }

type HeartbeatEvent struct {
	Status    string  `json:"status,omitempty"`
	Timestamp FlexInt `json:"timestamp,omitempty"`
}

func (*HeartbeatEvent) Kind() EventKind { return KindHeartbeat }

// TradeEvent is a trade print. Type is trade, or tradex when the
// subscription asked for advanced details.
type TradeEvent struct {
	Type   EventKind       `json:"type"`
	Symbol string          `json:"symbol"`
	Exch   string          `json:"exch"`
	Price  decimal.Decimal `json:"price"`
	Size   FlexInt         `json:"size"`
	CVol   FlexInt         `json:"cvol"`
	Date   FlexInt         `json:"date"`
	Last   decimal.Decimal `json:"last"`
}

func (e *TradeEvent) Kind() EventKind { return e.Type }

type QuoteEvent struct {
	Symbol  string          `json:"symbol"`
	Bid     decimal.Decimal `json:"bid"`
	BidSz   FlexInt         `json:"bidsz"`
	BidExch string          `json:"bidexch"`
	BidDate FlexInt         `json:"biddate"`
	Ask     decimal.Decimal `json:"ask"`
	AskSz   FlexInt         `json:"asksz"`
	AskExch string          `json:"askexch"`
	AskDate FlexInt         `json:"askdate"`
}

func (*QuoteEvent) Kind() EventKind { return KindQuote }

type SummaryEvent struct {
	Symbol    string          `json:"symbol"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	PrevClose decimal.Decimal `json:"prevClose"`
}

func (*SummaryEvent) Kind() EventKind { return KindSummary }

type TimeSaleEvent struct {
	Symbol     string          `json:"symbol"`
	Exch       string          `json:"exch"`
	Bid        decimal.Decimal `json:"bid"`
	Ask        decimal.Decimal `json:"ask"`
	Last       decimal.Decimal `json:"last"`
	Size       FlexInt         `json:"size"`
	Date       FlexInt         `json:"date"`
	Seq        FlexInt         `json:"seq"`
	Flag       string          `json:"flag"`
	Cancel     bool            `json:"cancel"`
	Correction bool            `json:"correction"`
	Session    string          `json:"session"`
}

func (*TimeSaleEvent) Kind() EventKind { return KindTimeSale }

// FlexInt accepts integers sent either bare or quoted.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int64() int64 { return int64(f) }

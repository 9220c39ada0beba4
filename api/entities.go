package api

import (
	"strings"

	"github.com/buger/jsonparser"
)

// Order is an order as reported by the orders endpoints and the account stream.
type Order struct {
	ID                int64       `json:"id"`
	Type              OrderType   `json:"type"`
	Symbol            string      `json:"symbol"`
	Side              OrderSide   `json:"side"`
	Quantity          float64     `json:"quantity"`
	Status            OrderStatus `json:"status"`
	Duration          Duration    `json:"duration"`
	Price             float64     `json:"price,omitempty"`
	StopPrice         float64     `json:"stop_price,omitempty"`
	AvgFillPrice      float64     `json:"avg_fill_price"`
	ExecQuantity      float64     `json:"exec_quantity"`
	LastFillPrice     float64     `json:"last_fill_price"`
	LastFillQuantity  float64     `json:"last_fill_quantity"`
	RemainingQuantity float64     `json:"remaining_quantity"`
	CreateDate        string      `json:"create_date"`
	TransactionDate   string      `json:"transaction_date"`
	Class             OrderClass  `json:"class"`
	OptionSymbol      string      `json:"option_symbol,omitempty"`
	NumLegs           int         `json:"num_legs,omitempty"`
	Strategy          string      `json:"strategy,omitempty"`
	Tag               string      `json:"tag,omitempty"`
	ReasonDescription string      `json:"reason_description,omitempty"`
	Legs              []Order     `json:"leg,omitempty"`
}

func (o *Order) UnmarshalJSON(b []byte) error {
	type alias Order
	aux := struct {
		*alias
		Legs oneOrMany[Order] `json:"leg"`
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	o.Legs = aux.Legs
	return nil
}

// OrderReceipt is the acknowledgement returned by order placement,
// modification and cancellation.
type OrderReceipt struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	PartnerID string `json:"partner_id,omitempty"`
}

type Position struct {
	CostBasis    float64 `json:"cost_basis"`
	DateAcquired string  `json:"date_acquired"`
	ID           int64   `json:"id"`
	Quantity     float64 `json:"quantity"`
	Symbol       string  `json:"symbol"`
}

type Greeks struct {
	Delta     float64 `json:"delta"`
	Gamma     float64 `json:"gamma"`
	Theta     float64 `json:"theta"`
	Vega      float64 `json:"vega"`
	Rho       float64 `json:"rho"`
	Phi       float64 `json:"phi"`
	BidIV     float64 `json:"bid_iv"`
	MidIV     float64 `json:"mid_iv"`
	AskIV     float64 `json:"ask_iv"`
	SmvVol    float64 `json:"smv_vol"`
	UpdatedAt string  `json:"updated_at"`
}

// Quote is a security quote. Option specific fields are zero for equities.
type Quote struct {
	Symbol           string       `json:"symbol"`
	Description      string       `json:"description,omitempty"`
	Exch             string       `json:"exch,omitempty"`
	Type             SecurityType `json:"type,omitempty"`
	Last             float64      `json:"last,omitempty"`
	Change           float64      `json:"change,omitempty"`
	Volume           int64        `json:"volume,omitempty"`
	Open             float64      `json:"open,omitempty"`
	High             float64      `json:"high,omitempty"`
	Low              float64      `json:"low,omitempty"`
	Close            float64      `json:"close,omitempty"`
	Bid              float64      `json:"bid,omitempty"`
	Ask              float64      `json:"ask,omitempty"`
	Underlying       string       `json:"underlying,omitempty"`
	Strike           float64      `json:"strike,omitempty"`
	ChangePercentage float64      `json:"change_percentage,omitempty"`
	AverageVolume    int64        `json:"average_volume,omitempty"`
	LastVolume       int64        `json:"last_volume,omitempty"`
	TradeDate        int64        `json:"trade_date,omitempty"`
	PrevClose        float64      `json:"prevclose,omitempty"`
	Week52High       float64      `json:"week_52_high,omitempty"`
	Week52Low        float64      `json:"week_52_low,omitempty"`
	BidSize          int64        `json:"bidsize,omitempty"`
	BidExch          string       `json:"bidexch,omitempty"`
	BidDate          int64        `json:"bid_date,omitempty"`
	AskSize          int64        `json:"asksize,omitempty"`
	AskExch          string       `json:"askexch,omitempty"`
	AskDate          int64        `json:"ask_date,omitempty"`
	OpenInterest     int64        `json:"open_interest,omitempty"`
	ContractSize     int          `json:"contract_size,omitempty"`
	ExpirationDate   string       `json:"expiration_date,omitempty"`
	ExpirationType   string       `json:"expiration_type,omitempty"`
	OptionType       OptionType   `json:"option_type,omitempty"`
	RootSymbol       string       `json:"root_symbol,omitempty"`
	RootSymbols      string       `json:"root_symbols,omitempty"`
	Greeks           *Greeks      `json:"greeks,omitempty"`
	// Note is set locally, e.g. for symbols the vendor could not match.
	Note string `json:"note,omitempty"`
}

type MarginBalance struct {
	FedCall           float64 `json:"fed_call"`
	MaintenanceCall   float64 `json:"maintenance_call"`
	OptionBuyingPower float64 `json:"option_buying_power"`
	StockBuyingPower  float64 `json:"stock_buying_power"`
	StockShortValue   float64 `json:"stock_short_value"`
	Sweep             float64 `json:"sweep"`
}

type CashBalance struct {
	CashAvailable  float64 `json:"cash_available"`
	Sweep          float64 `json:"sweep"`
	UnsettledFunds float64 `json:"unsettled_funds"`
}

type PDTBalance struct {
	FedCall           float64 `json:"fed_call"`
	MaintenanceCall   float64 `json:"maintenance_call"`
	OptionBuyingPower float64 `json:"option_buying_power"`
	StockBuyingPower  float64 `json:"stock_buying_power"`
	StockShortValue   float64 `json:"stock_short_value"`
}

// AccountBalance carries exactly one of Margin, Cash or PDT depending on
// the account type.
type AccountBalance struct {
	AccountNumber      string         `json:"account_number"`
	AccountType        AccountType    `json:"account_type"`
	OptionShortValue   float64        `json:"option_short_value"`
	TotalEquity        float64        `json:"total_equity"`
	ClosePL            float64        `json:"close_pl"`
	CurrentRequirement float64        `json:"current_requirement"`
	Equity             float64        `json:"equity"`
	LongMarketValue    float64        `json:"long_market_value"`
	MarketValue        float64        `json:"market_value"`
	OpenPL             float64        `json:"open_pl"`
	OptionLongValue    float64        `json:"option_long_value"`
	OptionRequirement  float64        `json:"option_requirement"`
	PendingOrdersCount int            `json:"pending_orders_count"`
	ShortMarketValue   float64        `json:"short_market_value"`
	StockLongValue     float64        `json:"stock_long_value"`
	TotalCash          float64        `json:"total_cash"`
	UnclearedFunds     float64        `json:"uncleared_funds"`
	PendingCash        float64        `json:"pending_cash"`
	Margin             *MarginBalance `json:"margin,omitempty"`
	Cash               *CashBalance   `json:"cash,omitempty"`
	PDT                *PDTBalance    `json:"pdt,omitempty"`
}

// UserAccount is one account of the authenticated user's profile.
type UserAccount struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	AccountNumber  string         `json:"account_number"`
	Classification Classification `json:"classification"`
	DateCreated    string         `json:"date_created"`
	DayTrader      bool           `json:"day_trader"`
	OptionLevel    int            `json:"option_level"`
	Status         AccountStatus  `json:"status"`
	Type           AccountType    `json:"type"`
	LastUpdateDate string         `json:"last_update_date"`
}

// HistoryEvent is an account history entry. The vendor nests the detail
// under a key named after the event type; it is flattened here.
type HistoryEvent struct {
	Amount      float64     `json:"amount"`
	Date        string      `json:"date"`
	Type        HistoryType `json:"type"`
	Description string      `json:"description,omitempty"`
	Commission  float64     `json:"commission,omitempty"`
	Price       float64     `json:"price,omitempty"`
	Quantity    float64     `json:"quantity,omitempty"`
	Symbol      string      `json:"symbol,omitempty"`
	TradeType   TradeType   `json:"trade_type,omitempty"`
}

func (h *HistoryEvent) UnmarshalJSON(b []byte) error {
	var base struct {
		Amount float64     `json:"amount"`
		Date   string      `json:"date"`
		Type   HistoryType `json:"type"`
	}
	if err := json.Unmarshal(b, &base); err != nil {
		return err
	}
	*h = HistoryEvent{Amount: base.Amount, Date: base.Date, Type: base.Type}

	raw, dataType, _, err := jsonparser.Get(b, string(base.Type))
	if err != nil || dataType != jsonparser.Object {
		return nil
	}

	var detail struct {
		Description string  `json:"description"`
		Commission  float64 `json:"commission"`
		Price       float64 `json:"price"`
		Quantity    float64 `json:"quantity"`
		Symbol      string  `json:"symbol"`
		TradeType   string  `json:"trade_type"`
	}
	if err := json.Unmarshal(raw, &detail); err != nil {
		return err
	}
	h.Description = detail.Description
	h.Commission = detail.Commission
	h.Price = detail.Price
	h.Quantity = detail.Quantity
	h.Symbol = detail.Symbol
	h.TradeType = TradeType(strings.ToLower(detail.TradeType))
	return nil
}

// ProfitLoss is a closed position from the gain/loss report.
type ProfitLoss struct {
	CloseDate       string  `json:"close_date"`
	Cost            float64 `json:"cost"`
	GainLoss        float64 `json:"gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
	OpenDate        string  `json:"open_date"`
	Proceeds        float64 `json:"proceeds"`
	Quantity        float64 `json:"quantity"`
	Symbol          string  `json:"symbol"`
	Term            int     `json:"term"`
}

type SessionHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MarketDay is one day of the market calendar.
type MarketDay struct {
	Date        string        `json:"date"`
	Status      MarketStatus  `json:"status"`
	Description string        `json:"description"`
	Premarket   *SessionHours `json:"premarket,omitempty"`
	Open        *SessionHours `json:"open,omitempty"`
	Postmarket  *SessionHours `json:"postmarket,omitempty"`
}

type Expiration struct {
	Date           string    `json:"date"`
	ContractSize   int       `json:"contract_size,omitempty"`
	ExpirationType string    `json:"expiration_type,omitempty"`
	Strikes        []float64 `json:"strikes,omitempty"`
}

func (e *Expiration) UnmarshalJSON(b []byte) error {
	type alias Expiration
	aux := struct {
		*alias
		Strikes maybe[struct {
			Strike oneOrMany[float64] `json:"strike"`
		}] `json:"strikes"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	e.Strikes = aux.Strikes.Value.Strike
	return nil
}

// HistoricalBar is one daily, weekly or monthly OHLCV bar.
type HistoricalBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// TimeSale is one intraday time and sales bar.
type TimeSale struct {
	Time      string  `json:"time"`
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	VWAP      float64 `json:"vwap"`
}

type Security struct {
	Symbol      string       `json:"symbol"`
	Exchange    string       `json:"exchange"`
	Type        SecurityType `json:"type"`
	Description string       `json:"description"`
}

// StreamSession authorizes one streaming connection.
type StreamSession struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionid"`
}

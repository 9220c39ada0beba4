package api

type OrderClass string

const (
	Equity   OrderClass = "equity"
	Option   OrderClass = "option"
	Multileg OrderClass = "multileg"
	Combo    OrderClass = "combo"
)

type OrderSide string

const (
	Buy         OrderSide = "buy"
	Sell        OrderSide = "sell"
	BuyToCover  OrderSide = "buy_to_cover"
	SellShort   OrderSide = "sell_short"
	BuyToOpen   OrderSide = "buy_to_open"
	BuyToClose  OrderSide = "buy_to_close"
	SellToOpen  OrderSide = "sell_to_open"
	SellToClose OrderSide = "sell_to_close"
)

func (s OrderSide) isEquity() bool {
	switch s {
	case Buy, Sell, BuyToCover, SellShort:
		return true
	}
	return false
}

func (s OrderSide) isOption() bool {
	switch s {
	case BuyToOpen, BuyToClose, SellToOpen, SellToClose:
		return true
	}
	return false
}

type OrderType string

const (
	Market    OrderType = "market"
	Limit     OrderType = "limit"
	Stop      OrderType = "stop"
	StopLimit OrderType = "stop_limit"
	Debit     OrderType = "debit"
	Credit    OrderType = "credit"
	Even      OrderType = "even"
)

type Duration string

const (
	Day Duration = "day"
	GTC Duration = "gtc"
	Pre Duration = "pre"
	// Post is the post-market session duration.
	Post Duration = "post"
)

type OrderStatus string

const (
	Open            OrderStatus = "open"
	PartiallyFilled OrderStatus = "partially_filled"
	Filled          OrderStatus = "filled"
	Expired         OrderStatus = "expired"
	Canceled        OrderStatus = "canceled"
	Pending         OrderStatus = "pending"
	Rejected        OrderStatus = "rejected"
	OrderError      OrderStatus = "error"
)

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// HistoryType is the type of an account history event.
type HistoryType string

const (
	HistoryTrade      HistoryType = "trade"
	HistoryOption     HistoryType = "option"
	HistoryACH        HistoryType = "ach"
	HistoryWire       HistoryType = "wire"
	HistoryDividend   HistoryType = "dividend"
	HistoryFee        HistoryType = "fee"
	HistoryTax        HistoryType = "tax"
	HistoryJournal    HistoryType = "journal"
	HistoryCheck      HistoryType = "check"
	HistoryTransfer   HistoryType = "transfer"
	HistoryAdjustment HistoryType = "adjustment"
	HistoryInterest   HistoryType = "interest"
)

type TradeType string

const (
	EquityTrade TradeType = "equity"
	OptionTrade TradeType = "option"
)

type AccountType string

const (
	Cash   AccountType = "cash"
	Margin AccountType = "margin"
	PDT    AccountType = "pdt"
)

type AccountStatus string

const (
	Active AccountStatus = "active"
	Closed AccountStatus = "closed"
)

type Classification string

const (
	Individual     Classification = "individual"
	Entity         Classification = "entity"
	JointSurvivor  Classification = "joint_survivor"
	TraditionalIRA Classification = "traditional_ira"
	RothIRA        Classification = "roth_ira"
	RolloverIRA    Classification = "rollover_ira"
	SepIRA         Classification = "sep_ira"
)

type SecurityType string

const (
	SecurityStock      SecurityType = "stock"
	SecurityOption     SecurityType = "option"
	SecurityETF        SecurityType = "etf"
	SecurityIndex      SecurityType = "index"
	SecurityMutualFund SecurityType = "mutual_fund"
)

type MarketStatus string

const (
	MarketOpen   MarketStatus = "open"
	MarketClosed MarketStatus = "closed"
)

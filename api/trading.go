package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// EquityOrder is a single leg stock order. Type defaults to market and
// Duration to day.
type EquityOrder struct {
	Symbol   string
	Side     OrderSide
	Quantity int64
	Type     OrderType
	Duration Duration
	Price    *decimal.Decimal
	Stop     *decimal.Decimal
	Tag      string
}

// OptionOrder is a single leg option order. The OCC symbol is derived from
// Underlying, Expiration, OptionType and Strike.
type OptionOrder struct {
	Underlying string
	Expiration string
	OptionType OptionType
	Strike     float64
	Side       OrderSide
	Quantity   int64
	Type       OrderType
	Duration   Duration
	Price      *decimal.Decimal
	Stop       *decimal.Decimal
	Tag        string
}

type Leg struct {
	Expiration string
	OptionType OptionType
	Strike     float64
	Side       OrderSide
	Quantity   int64
}

// MultilegOrder is an option strategy on one underlying. Debit and credit
// orders require Price.
type MultilegOrder struct {
	Symbol   string
	Type     OrderType
	Duration Duration
	Price    *decimal.Decimal
	Tag      string
	Legs     []Leg
}

// OrderModification changes a pending order. At least one field must be set.
type OrderModification struct {
	Type     OrderType
	Duration Duration
	Price    *decimal.Decimal
	Stop     *decimal.Decimal
}

func (c *Client) BuyStock(ctx context.Context, o EquityOrder) (*OrderReceipt, error) {
	o.Side = Buy
	return c.PlaceEquityOrder(ctx, o)
}

func (c *Client) SellStock(ctx context.Context, o EquityOrder) (*OrderReceipt, error) {
	o.Side = Sell
	return c.PlaceEquityOrder(ctx, o)
}

func (c *Client) PlaceEquityOrder(ctx context.Context, o EquityOrder) (*OrderReceipt, error) {
	if strings.TrimSpace(o.Symbol) == "" {
		return nil, invalidParam("symbol", "symbol is required")
	}
	if !o.Side.isEquity() {
		return nil, invalidParam("side", "%q is not an equity side", o.Side)
	}
	if o.Quantity <= 0 {
		return nil, invalidParam("quantity", "quantity must be positive")
	}
	o.Type, o.Duration = orderDefaults(o.Type, o.Duration)
	if err := checkPrices(o.Type, o.Price, o.Stop); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("class", string(Equity))
	form.Set("symbol", strings.ToUpper(o.Symbol))
	form.Set("side", string(o.Side))
	form.Set("quantity", strconv.FormatInt(o.Quantity, 10))
	form.Set("type", string(o.Type))
	form.Set("duration", string(o.Duration))
	setDecimal(form, "price", o.Price)
	setDecimal(form, "stop", o.Stop)
	setIf(form, "tag", o.Tag)

	return c.placeOrder(ctx, form)
}

// BuyOption opens a long option position.
func (c *Client) BuyOption(ctx context.Context, o OptionOrder) (*OrderReceipt, error) {
	o.Side = BuyToOpen
	return c.PlaceOptionOrder(ctx, o)
}

// SellOption closes a long option position.
func (c *Client) SellOption(ctx context.Context, o OptionOrder) (*OrderReceipt, error) {
	o.Side = SellToClose
	return c.PlaceOptionOrder(ctx, o)
}

func (c *Client) PlaceOptionOrder(ctx context.Context, o OptionOrder) (*OrderReceipt, error) {
	occ, err := OptionSymbol(o.Underlying, o.Expiration, o.OptionType, o.Strike)
	if err != nil {
		return nil, err
	}
	if !o.Side.isOption() {
		return nil, invalidParam("side", "%q is not an option side", o.Side)
	}
	if o.Quantity <= 0 {
		return nil, invalidParam("quantity", "quantity must be positive")
	}
	o.Type, o.Duration = orderDefaults(o.Type, o.Duration)
	if err := checkPrices(o.Type, o.Price, o.Stop); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("class", string(Option))
	form.Set("symbol", strings.ToUpper(o.Underlying))
	form.Set("option_symbol", occ)
	form.Set("side", string(o.Side))
	form.Set("quantity", strconv.FormatInt(o.Quantity, 10))
	form.Set("type", string(o.Type))
	form.Set("duration", string(o.Duration))
	setDecimal(form, "price", o.Price)
	setDecimal(form, "stop", o.Stop)
	setIf(form, "tag", o.Tag)

	return c.placeOrder(ctx, form)
}

func (c *Client) PlaceMultilegOrder(ctx context.Context, o MultilegOrder) (*OrderReceipt, error) {
	if strings.TrimSpace(o.Symbol) == "" {
		return nil, invalidParam("symbol", "symbol is required")
	}
	if len(o.Legs) < 2 {
		return nil, invalidParam("legs", "a multileg order needs at least two legs")
	}
	o.Type, o.Duration = orderDefaults(o.Type, o.Duration)
	switch o.Type {
	case Market, Even:
	case Debit, Credit:
		if o.Price == nil {
			return nil, invalidParam("price", "price is required for %s orders", o.Type)
		}
	default:
		return nil, invalidParam("type", "%q is not a multileg order type", o.Type)
	}

	form := url.Values{}
	form.Set("class", string(Multileg))
	form.Set("symbol", strings.ToUpper(o.Symbol))
	form.Set("type", string(o.Type))
	form.Set("duration", string(o.Duration))
	setDecimal(form, "price", o.Price)
	setIf(form, "tag", o.Tag)

	for i, leg := range o.Legs {
		occ, err := OptionSymbol(o.Symbol, leg.Expiration, leg.OptionType, leg.Strike)
		if err != nil {
			return nil, err
		}
		if !leg.Side.isOption() {
			return nil, invalidParam(fmt.Sprintf("side[%d]", i), "%q is not an option side", leg.Side)
		}
		if leg.Quantity <= 0 {
			return nil, invalidParam(fmt.Sprintf("quantity[%d]", i), "quantity must be positive")
		}
		form.Set(fmt.Sprintf("option_symbol[%d]", i), occ)
		form.Set(fmt.Sprintf("side[%d]", i), string(leg.Side))
		form.Set(fmt.Sprintf("quantity[%d]", i), strconv.FormatInt(leg.Quantity, 10))
	}

	return c.placeOrder(ctx, form)
}

func (c *Client) CancelOrder(ctx context.Context, orderID int64) (*OrderReceipt, error) {
	var resp orderResponse
	path := c.accountPath("orders/" + strconv.FormatInt(orderID, 10))
	if err := c.send(ctx, http.MethodDelete, "cancel_order", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.receipt()
}

func (c *Client) ModifyOrder(ctx context.Context, orderID int64, m OrderModification) (*OrderReceipt, error) {
	form := url.Values{}
	setIf(form, "type", string(m.Type))
	setIf(form, "duration", string(m.Duration))
	setDecimal(form, "price", m.Price)
	setDecimal(form, "stop", m.Stop)
	if len(form) == 0 {
		return nil, invalidParam("modification", "at least one of type, duration, price or stop is required")
	}

	var resp orderResponse
	path := c.accountPath("orders/" + strconv.FormatInt(orderID, 10))
	if err := c.send(ctx, http.MethodPut, "modify_order", path, form, &resp); err != nil {
		return nil, err
	}
	return resp.receipt()
}

type orderResponse struct {
	Order *OrderReceipt `json:"order"`
}

func (r orderResponse) receipt() (*OrderReceipt, error) {
	if r.Order == nil {
		return nil, &DecodingError{What: "order receipt", Err: errNoOrder}
	}
	return r.Order, nil
}

func (c *Client) placeOrder(ctx context.Context, form url.Values) (*OrderReceipt, error) {
	var resp orderResponse
	if err := c.send(ctx, http.MethodPost, "place_order", c.accountPath("orders"), form, &resp); err != nil {
		return nil, err
	}
	return resp.receipt()
}

func orderDefaults(t OrderType, d Duration) (OrderType, Duration) {
	if t == "" {
		t = Market
	}
	if d == "" {
		d = Day
	}
	return t, d
}

func checkPrices(t OrderType, price, stop *decimal.Decimal) error {
	switch t {
	case Market:
	case Limit:
		if price == nil {
			return invalidParam("price", "price is required for limit orders")
		}
	case Stop:
		if stop == nil {
			return invalidParam("stop", "stop is required for stop orders")
		}
	case StopLimit:
		if price == nil || stop == nil {
			return invalidParam("price", "price and stop are required for stop_limit orders")
		}
	default:
		return invalidParam("type", "%q is not a single leg order type", t)
	}
	return nil
}

func setDecimal(form url.Values, key string, d *decimal.Decimal) {
	if d != nil {
		form.Set(key, d.String())
	}
}

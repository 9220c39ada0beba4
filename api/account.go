package api

import (
	"context"
	"net/url"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 25
)

// GetUserProfile returns the accounts of the authenticated user.
func (c *Client) GetUserProfile(ctx context.Context) ([]UserAccount, error) {
	const endpoint = "user_profile"
	if c.Sandbox() {
		return nil, &NotAvailableError{Endpoint: endpoint}
	}

	var resp struct {
		Profile struct {
			ID      string                 `json:"id"`
			Name    string                 `json:"name"`
			Account oneOrMany[UserAccount] `json:"account"`
		} `json:"profile"`
	}
	if err := c.get(ctx, endpoint, "/v1/user/profile", nil, &resp); err != nil {
		return nil, err
	}

	accounts := make([]UserAccount, 0, len(resp.Profile.Account))
	for _, a := range resp.Profile.Account {
		a.ID = resp.Profile.ID
		a.Name = resp.Profile.Name
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (c *Client) GetBalance(ctx context.Context) (*AccountBalance, error) {
	var resp struct {
		Balances AccountBalance `json:"balances"`
	}
	if err := c.get(ctx, "balances", c.accountPath("balances"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Balances, nil
}

// HistoryParams filters the account history. Zero values are omitted.
type HistoryParams struct {
	Page       int
	Limit      int
	Type       HistoryType
	Start      string
	End        string
	Symbol     string
	ExactMatch bool
}

func (c *Client) GetHistory(ctx context.Context, p HistoryParams) ([]HistoryEvent, error) {
	const endpoint = "history"
	if c.Sandbox() {
		return nil, &NotAvailableError{Endpoint: endpoint}
	}
	if err := checkDate("start", p.Start); err != nil {
		return nil, err
	}
	if err := checkDate("end", p.End); err != nil {
		return nil, err
	}

	q := pageQuery(p.Page, p.Limit)
	if p.Type != "" {
		q.Set("type", string(p.Type))
	}
	setIf(q, "start", p.Start)
	setIf(q, "end", p.End)
	setIf(q, "symbol", p.Symbol)
	if p.ExactMatch {
		q.Set("exactMatch", "true")
	}

	var resp struct {
		History maybe[struct {
			Event oneOrMany[HistoryEvent] `json:"event"`
		}] `json:"history"`
	}
	if err := c.get(ctx, endpoint, c.accountPath("history"), q, &resp); err != nil {
		return nil, err
	}
	return resp.History.Value.Event, nil
}

func (c *Client) GetPositions(ctx context.Context) ([]Position, error) {
	var resp struct {
		Positions maybe[struct {
			Position oneOrMany[Position] `json:"position"`
		}] `json:"positions"`
	}
	if err := c.get(ctx, "positions", c.accountPath("positions"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Positions.Value.Position, nil
}

// GainLossParams filters the closed positions report. SortBy is closeDate
// or openDate, Sort is desc or asc.
type GainLossParams struct {
	Page   int
	Limit  int
	SortBy string
	Sort   string
	Start  string
	End    string
	Symbol string
}

func (c *Client) GetGainLoss(ctx context.Context, p GainLossParams) ([]ProfitLoss, error) {
	if p.SortBy == "" {
		p.SortBy = "closeDate"
	}
	if p.Sort == "" {
		p.Sort = "desc"
	}
	if err := checkOneOf("sortBy", p.SortBy, "closeDate", "openDate"); err != nil {
		return nil, err
	}
	if err := checkOneOf("sort", p.Sort, "desc", "asc"); err != nil {
		return nil, err
	}
	if err := checkDate("start", p.Start); err != nil {
		return nil, err
	}
	if err := checkDate("end", p.End); err != nil {
		return nil, err
	}

	q := pageQuery(p.Page, p.Limit)
	q.Set("sortBy", p.SortBy)
	q.Set("sort", p.Sort)
	setIf(q, "start", p.Start)
	setIf(q, "end", p.End)
	setIf(q, "symbol", p.Symbol)

	var resp struct {
		GainLoss maybe[struct {
			ClosedPosition oneOrMany[ProfitLoss] `json:"closed_position"`
		}] `json:"gainloss"`
	}
	if err := c.get(ctx, "gainloss", c.accountPath("gainloss"), q, &resp); err != nil {
		return nil, err
	}
	return resp.GainLoss.Value.ClosedPosition, nil
}

// ListOrdersPage returns one page of the account's orders, tags included.
// An empty slice marks the page after the last.
func (c *Client) ListOrdersPage(ctx context.Context, page int) ([]Order, error) {
	if page < 1 {
		page = defaultPage
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("includeTags", "true")

	var resp struct {
		Orders maybe[struct {
			Order oneOrMany[Order] `json:"order"`
		}] `json:"orders"`
	}
	if err := c.get(ctx, "orders", c.accountPath("orders"), q, &resp); err != nil {
		return nil, err
	}
	return resp.Orders.Value.Order, nil
}

// ListOrders walks every page of the account's orders.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	for page := 1; ; page++ {
		batch, err := c.ListOrdersPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return orders, nil
		}
		orders = append(orders, batch...)
	}
}

func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	q := url.Values{}
	q.Set("includeTags", "true")

	var resp struct {
		Order *Order `json:"order"`
	}
	path := c.accountPath("orders/" + strconv.FormatInt(orderID, 10))
	if err := c.get(ctx, "order", path, q, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, &DecodingError{What: "order", Err: errNoOrder}
	}
	return resp.Order, nil
}

func pageQuery(page, limit int) url.Values {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

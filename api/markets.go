package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const unmatchedNote = "unmatched symbol"

// GetQuotes returns a quote per symbol. Symbols the vendor does not know are
// returned as a Quote carrying only Symbol and Note.
func (c *Client) GetQuotes(ctx context.Context, symbols []string, greeks bool) ([]Quote, error) {
	if len(symbols) == 0 {
		return nil, invalidParam("symbols", "at least one symbol is required")
	}
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("greeks", strconv.FormatBool(greeks))

	var resp struct {
		Quotes maybe[struct {
			Quote     oneOrMany[Quote] `json:"quote"`
			Unmatched maybe[struct {
				Symbol oneOrMany[string] `json:"symbol"`
			}] `json:"unmatched_symbols"`
		}] `json:"quotes"`
	}
	if err := c.get(ctx, "quotes", "/v1/markets/quotes", q, &resp); err != nil {
		return nil, err
	}

	quotes := []Quote(resp.Quotes.Value.Quote)
	for _, s := range resp.Quotes.Value.Unmatched.Value.Symbol {
		quotes = append(quotes, Quote{Symbol: s, Note: unmatchedNote})
	}
	return quotes, nil
}

// GetOptionChains returns the option chain of symbol for one expiration.
// An empty optionType returns both calls and puts.
func (c *Client) GetOptionChains(ctx context.Context, symbol, expiration string, greeks bool,
	optionType OptionType,
) ([]Quote, error) {
	if !isDate(expiration) {
		return nil, invalidParam("expiration", "%q is not a YYYY-MM-DD date", expiration)
	}
	if optionType != "" && optionType != Call && optionType != Put {
		return nil, invalidParam("option_type", "%q is not call or put", optionType)
	}
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("expiration", expiration)
	q.Set("greeks", strconv.FormatBool(greeks))

	var resp struct {
		Options maybe[struct {
			Option oneOrMany[Quote] `json:"option"`
		}] `json:"options"`
	}
	if err := c.get(ctx, "option_chains", "/v1/markets/options/chains", q, &resp); err != nil {
		return nil, err
	}

	chain := resp.Options.Value.Option
	if optionType == "" {
		return chain, nil
	}
	filtered := make([]Quote, 0, len(chain))
	for _, o := range chain {
		if o.OptionType == optionType {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (c *Client) GetOptionStrikes(ctx context.Context, symbol, expiration string) ([]float64, error) {
	if !isDate(expiration) {
		return nil, invalidParam("expiration", "%q is not a YYYY-MM-DD date", expiration)
	}
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("expiration", expiration)

	var resp struct {
		Strikes maybe[struct {
			Strike oneOrMany[float64] `json:"strike"`
		}] `json:"strikes"`
	}
	if err := c.get(ctx, "option_strikes", "/v1/markets/options/strikes", q, &resp); err != nil {
		return nil, err
	}
	return resp.Strikes.Value.Strike, nil
}

// GetOptionExpirations lists the expiration dates of symbol. The vendor
// returns bare dates unless one of the detail flags is set.
func (c *Client) GetOptionExpirations(ctx context.Context, symbol string,
	includeStrikes, contractSize, expirationType bool,
) ([]Expiration, error) {
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("includeAllRoots", "true")
	q.Set("strikes", strconv.FormatBool(includeStrikes))
	q.Set("contractSize", strconv.FormatBool(contractSize))
	q.Set("expirationType", strconv.FormatBool(expirationType))

	var resp struct {
		Expirations maybe[struct {
			Expiration oneOrMany[Expiration] `json:"expiration"`
			Date       oneOrMany[string]     `json:"date"`
		}] `json:"expirations"`
	}
	if err := c.get(ctx, "option_expirations", "/v1/markets/options/expirations", q, &resp); err != nil {
		return nil, err
	}

	exps := []Expiration(resp.Expirations.Value.Expiration)
	for _, d := range resp.Expirations.Value.Date {
		exps = append(exps, Expiration{Date: d})
	}
	return exps, nil
}

// LookupOptionSymbols returns every OCC symbol listed for underlying.
func (c *Client) LookupOptionSymbols(ctx context.Context, underlying string) ([]string, error) {
	q := url.Values{}
	q.Set("underlying", strings.ToUpper(underlying))

	var resp struct {
		Symbols oneOrMany[struct {
			RootSymbol string   `json:"rootSymbol"`
			Options    []string `json:"options"`
		}] `json:"symbols"`
	}
	if err := c.get(ctx, "option_lookup", "/v1/markets/options/lookup", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Symbols) == 0 {
		return nil, nil
	}
	return resp.Symbols[0].Options, nil
}

// GetCalendar returns the market calendar for a month. Empty year and month
// select the current month.
func (c *Client) GetCalendar(ctx context.Context, year, month string) ([]MarketDay, error) {
	q := url.Values{}
	if year != "" {
		if !yearPattern.MatchString(year) {
			return nil, invalidParam("year", "%q is not a YYYY year", year)
		}
		q.Set("year", year)
	}
	if month != "" {
		m, err := strconv.Atoi(month)
		if !monthPattern.MatchString(month) || err != nil || m < 1 || m > 12 {
			return nil, invalidParam("month", "%q is not a MM month between 01 and 12", month)
		}
		q.Set("month", month)
	}

	var resp struct {
		Calendar struct {
			Days maybe[struct {
				Day oneOrMany[MarketDay] `json:"day"`
			}] `json:"days"`
		} `json:"calendar"`
	}
	if err := c.get(ctx, "calendar", "/v1/markets/calendar", q, &resp); err != nil {
		return nil, err
	}
	return resp.Calendar.Days.Value.Day, nil
}

// GetHistoricalQuotes returns daily, weekly or monthly bars between start
// and end (YYYY-MM-DD).
func (c *Client) GetHistoricalQuotes(ctx context.Context, symbol, interval, start, end string,
) ([]HistoricalBar, error) {
	if interval == "" {
		interval = "daily"
	}
	if err := checkOneOf("interval", interval, "daily", "weekly", "monthly"); err != nil {
		return nil, err
	}
	if !isDate(start) {
		return nil, invalidParam("start", "%q is not a YYYY-MM-DD date", start)
	}
	if !isDate(end) {
		return nil, invalidParam("end", "%q is not a YYYY-MM-DD date", end)
	}
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("interval", interval)
	q.Set("start", start)
	q.Set("end", end)

	var resp struct {
		History maybe[struct {
			Day oneOrMany[HistoricalBar] `json:"day"`
		}] `json:"history"`
	}
	if err := c.get(ctx, "market_history", "/v1/markets/history", q, &resp); err != nil {
		return nil, err
	}
	return resp.History.Value.Day, nil
}

// GetTimeAndSales returns intraday bars. start and end are YYYY-MM-DD HH:MM.
func (c *Client) GetTimeAndSales(ctx context.Context, symbol, interval, start, end, sessionFilter string,
) ([]TimeSale, error) {
	if interval == "" {
		interval = "1min"
	}
	if sessionFilter == "" {
		sessionFilter = "all"
	}
	if err := checkOneOf("interval", interval, "tick", "1min", "5min", "15min", "30min", "hour"); err != nil {
		return nil, err
	}
	if err := checkOneOf("session_filter", sessionFilter, "all", "open"); err != nil {
		return nil, err
	}
	if err := checkDateTime("start", start); err != nil {
		return nil, err
	}
	if err := checkDateTime("end", end); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("interval", interval)
	setIf(q, "start", start)
	setIf(q, "end", end)
	q.Set("session_filter", sessionFilter)

	var resp struct {
		Series maybe[struct {
			Data oneOrMany[TimeSale] `json:"data"`
		}] `json:"series"`
	}
	if err := c.get(ctx, "timesales", "/v1/markets/timesales", q, &resp); err != nil {
		return nil, err
	}
	return resp.Series.Value.Data, nil
}

// GetETBSecurities returns the easy-to-borrow list.
func (c *Client) GetETBSecurities(ctx context.Context) ([]Security, error) {
	return c.securities(ctx, "etb", "/v1/markets/etb", nil)
}

// SearchCompanies searches securities by company name. indexes includes
// index symbols in the results.
func (c *Client) SearchCompanies(ctx context.Context, query string, indexes bool) ([]Security, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalidParam("q", "query is required")
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("indexes", strconv.FormatBool(indexes))
	return c.securities(ctx, "search", "/v1/markets/search", q)
}

// LookupSymbol searches securities by symbol prefix, optionally restricted
// to exchanges (Q, N) and security types (stock, option, etf, index).
func (c *Client) LookupSymbol(ctx context.Context, query string, exchanges []string, types []SecurityType,
) ([]Security, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalidParam("q", "query is required")
	}
	for _, e := range exchanges {
		if err := checkOneOf("exchanges", e, "Q", "N"); err != nil {
			return nil, err
		}
	}
	ts := make([]string, 0, len(types))
	for _, t := range types {
		if err := checkOneOf("types", string(t), "stock", "option", "etf", "index"); err != nil {
			return nil, err
		}
		ts = append(ts, string(t))
	}

	q := url.Values{}
	q.Set("q", query)
	if len(exchanges) > 0 {
		q.Set("exchanges", strings.Join(exchanges, ","))
	}
	if len(ts) > 0 {
		q.Set("types", strings.Join(ts, ","))
	}
	return c.securities(ctx, "lookup", "/v1/markets/lookup", q)
}

func (c *Client) securities(ctx context.Context, endpoint, path string, q url.Values) ([]Security, error) {
	var resp struct {
		Securities maybe[struct {
			Security oneOrMany[Security] `json:"security"`
		}] `json:"securities"`
	}
	if err := c.get(ctx, endpoint, path, q, &resp); err != nil {
		return nil, err
	}
	return resp.Securities.Value.Security, nil
}

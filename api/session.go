package api

import (
	"context"
	"net/http"
)

// CreateAccountStreamSession opens a session for the account events stream.
// The returned URL is where the WebSocket must be dialed.
func (c *Client) CreateAccountStreamSession(ctx context.Context) (*StreamSession, error) {
	return c.createSession(ctx, "account_stream_session", "/v1/accounts/events/session")
}

// CreateMarketStreamSession opens a session for the market events stream.
// The vendor returns an HTTP streaming URL here; the WebSocket endpoint is
// MarketStreamURL.
func (c *Client) CreateMarketStreamSession(ctx context.Context) (*StreamSession, error) {
	s, err := c.createSession(ctx, "market_stream_session", "/v1/markets/events/session")
	if err != nil {
		return nil, err
	}
	s.URL = c.MarketStreamURL()
	return s, nil
}

func (c *Client) createSession(ctx context.Context, endpoint, path string) (*StreamSession, error) {
	var resp struct {
		Stream *StreamSession `json:"stream"`
	}
	if err := c.send(ctx, http.MethodPost, endpoint, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Stream == nil || resp.Stream.SessionID == "" {
		return nil, &DecodingError{What: endpoint, Err: errNoSession}
	}
	return resp.Stream, nil
}

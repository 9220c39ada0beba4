package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/tradierkit/tradier/metrics"
	"github.com/tradierkit/tradier/utils/log"
)

const (
	// BaseURL is the production Tradier REST endpoint.
	BaseURL = "https://api.tradier.com"
	// SandboxBaseURL is the paper trading endpoint. Streaming and a few
	// account endpoints are not served there.
	SandboxBaseURL = "https://sandbox.tradier.com"
	// MarketStreamURL is the WebSocket endpoint for market data events.
	MarketStreamURL = "wss://ws.tradier.com/v1/markets/events"

	defaultTimeout = 10 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds everything needed to construct a Client.
type Config struct {
	// Token is the bearer token issued by Tradier.
	Token string
	// AccountID is used by the account and trading endpoints.
	AccountID string
	// Sandbox switches the default base URL to SandboxBaseURL.
	Sandbox bool
	// BaseURL overrides the REST endpoint when set.
	BaseURL string
	// StreamURL overrides MarketStreamURL when set.
	StreamURL string
	// Timeout is applied to the default http.Client. Ignored when HTTPClient is set.
	Timeout time.Duration
	// HTTPClient replaces the default http.Client.
	HTTPClient *http.Client
}

// Client calls Tradier REST endpoints and returns parsed records.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = BaseURL
		if cfg.Sandbox {
			base = SandboxBaseURL
		}
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: hc,
	}
}

// AccountID returns the account the client trades on.
func (c *Client) AccountID() string {
	return c.cfg.AccountID
}

// Sandbox reports whether the client targets the sandbox environment.
func (c *Client) Sandbox() bool {
	return c.cfg.Sandbox
}

// MarketStreamURL returns the market events WebSocket URL.
func (c *Client) MarketStreamURL() string {
	if c.cfg.StreamURL != "" {
		return c.cfg.StreamURL
	}
	return MarketStreamURL
}

func (c *Client) accountPath(suffix string) string {
	return fmt.Sprintf("/v1/accounts/%s/%s", url.PathEscape(c.cfg.AccountID), suffix)
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, out interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return errors.Wrap(err, "failed to parse url")
	}
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return errors.Wrap(err, "failed to create an http request")
	}

	return c.execute(req, endpoint, out)
}

func (c *Client) send(ctx context.Context, method, endpoint, path string, form url.Values, out interface{}) error {
	var body io.Reader = http.NoBody
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "failed to create an http request")
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return c.execute(req, endpoint, out)
}

func (c *Client) execute(req *http.Request, endpoint string, out interface{}) (err error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	log.Debug("[tradier] request method=%s url=%v", req.Method, req.URL)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close http response")
		}
	}()
	metrics.APIRequests.WithLabelValues(endpoint, fmt.Sprint(resp.StatusCode)).Inc()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: errors.Wrap(err, "failed to read the response body")}
	}

	if err := verify(endpoint, resp.StatusCode, b); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &DecodingError{What: endpoint, Payload: string(b), Err: err}
	}

	return nil
}

// verify maps an HTTP status and body to the error kinds callers match on.
func verify(endpoint string, status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return &AuthenticationError{Endpoint: endpoint, Body: string(body)}
	case status >= 400 && status < 500:
		return &ValidationError{
			Endpoint:   endpoint,
			StatusCode: status,
			Body:       string(body),
			Messages:   vendorErrors(body),
		}
	case status >= 300:
		return &APIError{Endpoint: endpoint, StatusCode: status, Body: string(body)}
	}

	// the vendor reports some rejections with a 200 and an errors object
	if msgs := vendorErrors(body); len(msgs) > 0 {
		return &ValidationError{
			Endpoint:   endpoint,
			StatusCode: http.StatusBadRequest,
			Body:       string(body),
			Messages:   msgs,
		}
	}
	return nil
}

func vendorErrors(body []byte) []string {
	raw, dataType, _, err := jsonparser.Get(body, "errors", "error")
	if err != nil {
		return nil
	}

	switch dataType {
	case jsonparser.String:
		s, _ := jsonparser.ParseString(raw)
		return []string{s}
	case jsonparser.Array:
		var msgs []string
		_, _ = jsonparser.ArrayEach(raw, func(value []byte, dt jsonparser.ValueType, _ int, _ error) {
			if dt == jsonparser.String {
				s, _ := jsonparser.ParseString(value)
				msgs = append(msgs, s)
			}
		})
		return msgs
	default:
		return nil
	}
}

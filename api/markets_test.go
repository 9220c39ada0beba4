package api

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetQuotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []Quote
	}{
		{
			name: "single quote with unmatched symbols",
			body: `{"quotes":{"quote":{"symbol":"AAPL","description":"Apple Inc","exch":"Q","type":"stock",
				"last":208.21,"change":-0.24,"volume":25288395,"open":207.36,"high":208.51,"low":206.1,
				"close":null,"bid":208.19,"ask":208.21,"change_percentage":-0.12,"average_volume":27215269,
				"last_volume":100,"trade_date":1557168406000,"prevclose":208.45,"week_52_high":233.47,
				"week_52_low":142.0,"bidsize":12,"bidexch":"Q","bid_date":1557168406000,"asksize":1,
				"askexch":"Y","ask_date":1557168406000,"root_symbols":"AAPL"},
				"unmatched_symbols":{"symbol":"NOPE"}}}`,
			want: []Quote{
				{
					Symbol: "AAPL", Description: "Apple Inc", Exch: "Q", Type: SecurityStock, Last: 208.21,
					Change: -0.24, Volume: 25288395, Open: 207.36, High: 208.51, Low: 206.1, Bid: 208.19,
					Ask: 208.21, ChangePercentage: -0.12, AverageVolume: 27215269, LastVolume: 100,
					TradeDate: 1557168406000, PrevClose: 208.45, Week52High: 233.47, Week52Low: 142,
					BidSize: 12, BidExch: "Q", BidDate: 1557168406000, AskSize: 1, AskExch: "Y",
					AskDate: 1557168406000, RootSymbols: "AAPL",
				},
				{Symbol: "NOPE", Note: "unmatched symbol"},
			},
		},
		{
			name: "option quote with greeks",
			body: `{"quotes":{"quote":[{"symbol":"AAPL240119C00190000","type":"option","underlying":"AAPL",
				"strike":190.0,"open_interest":1200,"contract_size":100,"expiration_date":"2024-01-19",
				"expiration_type":"standard","option_type":"call","root_symbol":"AAPL",
				"greeks":{"delta":0.52,"gamma":0.03,"theta":-0.1,"vega":0.2,"rho":0.05,"phi":-0.04,
				"bid_iv":0.21,"mid_iv":0.22,"ask_iv":0.23,"smv_vol":0.22,"updated_at":"2024-01-10 20:00:00"}}]}}`,
			want: []Quote{{
				Symbol: "AAPL240119C00190000", Type: SecurityOption, Underlying: "AAPL", Strike: 190,
				OpenInterest: 1200, ContractSize: 100, ExpirationDate: "2024-01-19", ExpirationType: "standard",
				OptionType: Call, RootSymbol: "AAPL",
				Greeks: &Greeks{Delta: 0.52, Gamma: 0.03, Theta: -0.1, Vega: 0.2, Rho: 0.05, Phi: -0.04,
					BidIV: 0.21, MidIV: 0.22, AskIV: 0.23, SmvVol: 0.22, UpdatedAt: "2024-01-10 20:00:00"},
			}},
		},
		{
			name: "only unmatched",
			body: `{"quotes":{"unmatched_symbols":{"symbol":["X1","X2"]}}}`,
			want: []Quote{{Symbol: "X1", Note: "unmatched symbol"}, {Symbol: "X2", Note: "unmatched symbol"}},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			SUT, rec := newMockClient(t, Config{}, ok(tt.body))

			got, err := SUT.GetQuotes(context.Background(), []string{"AAPL", "NOPE"}, true)

			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GetQuotes() mismatch (-want +got):\n%s", diff)
			}
			req, _ := rec.last(t)
			assert.Equal(t, "AAPL,NOPE", req.URL.Query().Get("symbols"))
			assert.Equal(t, "true", req.URL.Query().Get("greeks"))
		})
	}
}

func TestClient_GetOptionChains_FiltersType(t *testing.T) {
	t.Parallel()

	body := `{"options":{"option":[
		{"symbol":"VXX190517P00016000","option_type":"put","strike":16},
		{"symbol":"VXX190517C00016000","option_type":"call","strike":16}]}}`
	SUT, rec := newMockClient(t, Config{}, ok(body))

	got, err := SUT.GetOptionChains(context.Background(), "vxx", "2019-05-17", false, Put)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "VXX190517P00016000", got[0].Symbol)
	req, _ := rec.last(t)
	assert.Equal(t, "VXX", req.URL.Query().Get("symbol"))

	_, err = SUT.GetOptionChains(context.Background(), "VXX", "05/17/2019", false, "")
	var target *ValidationError
	assert.True(t, errors.As(err, &target))
}

func TestClient_GetOptionStrikes(t *testing.T) {
	t.Parallel()

	SUT, _ := newMockClient(t, Config{}, ok(`{"strikes":{"strike":[5.0,7.5,10.0]}}`))

	got, err := SUT.GetOptionStrikes(context.Background(), "VXX", "2019-05-17")

	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7.5, 10}, got)
}

func TestClient_GetOptionExpirations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []Expiration
	}{
		{
			name: "dates only",
			body: `{"expirations":{"date":["2018-07-13","2018-07-20"]}}`,
			want: []Expiration{{Date: "2018-07-13"}, {Date: "2018-07-20"}},
		},
		{
			name: "detailed",
			body: `{"expirations":{"expiration":[{"date":"2018-07-13","contract_size":100,
				"expiration_type":"weeklys","strikes":{"strike":[95.0,100.0]}},
				{"date":"2018-07-20","contract_size":100,"expiration_type":"standard","strikes":{"strike":105.0}}]}}`,
			want: []Expiration{
				{Date: "2018-07-13", ContractSize: 100, ExpirationType: "weeklys", Strikes: []float64{95, 100}},
				{Date: "2018-07-20", ContractSize: 100, ExpirationType: "standard", Strikes: []float64{105}},
			},
		},
		{name: "none", body: `{"expirations":null}`, want: nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			SUT, _ := newMockClient(t, Config{}, ok(tt.body))

			got, err := SUT.GetOptionExpirations(context.Background(), "SPY", true, true, true)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_LookupOptionSymbols(t *testing.T) {
	t.Parallel()

	SUT, rec := newMockClient(t, Config{},
		ok(`{"symbols":[{"rootSymbol":"SPY","options":["SPY240119C00400000","SPY240119P00400000"]}]}`))

	got, err := SUT.LookupOptionSymbols(context.Background(), "spy")

	require.NoError(t, err)
	assert.Equal(t, []string{"SPY240119C00400000", "SPY240119P00400000"}, got)
	req, _ := rec.last(t)
	assert.Equal(t, "SPY", req.URL.Query().Get("underlying"))
}

func TestClient_GetCalendar(t *testing.T) {
	t.Parallel()

	body := `{"calendar":{"month":7,"year":2019,"days":{"day":[
		{"date":"2019-07-03","status":"open","description":"Market is open",
		 "premarket":{"start":"07:00","end":"09:24"},"open":{"start":"09:30","end":"13:00"},
		 "postmarket":{"start":"13:00","end":"17:00"}},
		{"date":"2019-07-04","status":"closed","description":"Market is closed for Independence Day"}]}}}`
	SUT, rec := newMockClient(t, Config{}, ok(body))

	got, err := SUT.GetCalendar(context.Background(), "2019", "07")

	require.NoError(t, err)
	want := []MarketDay{
		{
			Date: "2019-07-03", Status: MarketOpen, Description: "Market is open",
			Premarket:  &SessionHours{Start: "07:00", End: "09:24"},
			Open:       &SessionHours{Start: "09:30", End: "13:00"},
			Postmarket: &SessionHours{Start: "13:00", End: "17:00"},
		},
		{Date: "2019-07-04", Status: MarketClosed, Description: "Market is closed for Independence Day"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetCalendar() mismatch (-want +got):\n%s", diff)
	}
	req, _ := rec.last(t)
	assert.Equal(t, "07", req.URL.Query().Get("month"))
}

func TestClient_GetCalendar_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year, month, param string
	}{
		{year: "19", month: "07", param: "year"},
		{year: "2019", month: "7", param: "month"},
		{year: "2019", month: "13", param: "month"},
		{year: "2019", month: "00", param: "month"},
	}
	SUT, rec := newMockClient(t, Config{}, ok(`{}`))
	for _, tt := range tests {
		_, err := SUT.GetCalendar(context.Background(), tt.year, tt.month)
		var target *ValidationError
		require.True(t, errors.As(err, &target), "%s-%s", tt.year, tt.month)
		assert.Equal(t, tt.param, target.Param)
	}
	assert.Equal(t, 0, rec.count())
}

func TestClient_GetHistoricalQuotes(t *testing.T) {
	t.Parallel()

	body := `{"history":{"day":[{"date":"2019-01-02","open":154.89,"high":158.85,"low":154.23,"close":157.92,"volume":37039737},
		{"date":"2019-01-03","open":143.98,"high":145.72,"low":142.0,"close":142.19,"volume":91312195}]}}`
	SUT, _ := newMockClient(t, Config{}, ok(body))

	got, err := SUT.GetHistoricalQuotes(context.Background(), "AAPL", "daily", "2019-01-01", "2019-01-05")

	require.NoError(t, err)
	assert.Equal(t, []HistoricalBar{
		{Date: "2019-01-02", Open: 154.89, High: 158.85, Low: 154.23, Close: 157.92, Volume: 37039737},
		{Date: "2019-01-03", Open: 143.98, High: 145.72, Low: 142, Close: 142.19, Volume: 91312195},
	}, got)

	_, err = SUT.GetHistoricalQuotes(context.Background(), "AAPL", "hourly", "2019-01-01", "2019-01-05")
	var target *ValidationError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "interval", target.Param)
}

func TestClient_GetTimeAndSales(t *testing.T) {
	t.Parallel()

	body := `{"series":{"data":{"time":"2019-05-09T09:30:00","timestamp":1557408600,"price":199.64499,
		"open":200.46,"high":200.58,"low":198.71,"close":199.02,"volume":1536977,"vwap":199.64499}}}`
	SUT, rec := newMockClient(t, Config{}, ok(body))

	got, err := SUT.GetTimeAndSales(context.Background(), "AAPL", "15min", "2019-05-09 09:30", "2019-05-09 16:00", "open")

	require.NoError(t, err)
	assert.Equal(t, []TimeSale{{
		Time: "2019-05-09T09:30:00", Timestamp: 1557408600, Price: 199.64499, Open: 200.46, High: 200.58,
		Low: 198.71, Close: 199.02, Volume: 1536977, VWAP: 199.64499,
	}}, got)
	req, _ := rec.last(t)
	assert.Equal(t, "open", req.URL.Query().Get("session_filter"))
	assert.Equal(t, "2019-05-09 09:30", req.URL.Query().Get("start"))

	_, err = SUT.GetTimeAndSales(context.Background(), "AAPL", "1min", "2019-05-09", "", "all")
	var target *ValidationError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "start", target.Param)
}

func TestClient_Securities(t *testing.T) {
	t.Parallel()

	body := `{"securities":{"security":[{"symbol":"GOOGL","exchange":"Q","type":"stock","description":"Alphabet Inc"},
		{"symbol":"GOOG","exchange":"Q","type":"stock","description":"Alphabet Inc"}]}}`
	want := []Security{
		{Symbol: "GOOGL", Exchange: "Q", Type: SecurityStock, Description: "Alphabet Inc"},
		{Symbol: "GOOG", Exchange: "Q", Type: SecurityStock, Description: "Alphabet Inc"},
	}
	ctx := context.Background()

	SUT, rec := newMockClient(t, Config{}, ok(body))

	got, err := SUT.GetETBSecurities(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = SUT.SearchCompanies(ctx, "alphabet", true)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	req, _ := rec.last(t)
	assert.Equal(t, "/v1/markets/search", req.URL.Path)
	assert.Equal(t, "true", req.URL.Query().Get("indexes"))

	got, err = SUT.LookupSymbol(ctx, "goo", []string{"Q", "N"}, []SecurityType{SecurityStock, SecurityETF})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	req, _ = rec.last(t)
	assert.Equal(t, "Q,N", req.URL.Query().Get("exchanges"))
	assert.Equal(t, "stock,etf", req.URL.Query().Get("types"))

	_, err = SUT.LookupSymbol(ctx, "goo", []string{"X"}, nil)
	var target *ValidationError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "exchanges", target.Param)

	_, err = SUT.LookupSymbol(ctx, "goo", nil, []SecurityType{SecurityMutualFund})
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "types", target.Param)
}

func TestClient_StreamSessions(t *testing.T) {
	t.Parallel()

	body := `{"stream":{"url":"wss://ws.tradier.com/v1/accounts/events","sessionid":"c8638963-a6d4-4fb9-9bc6-e25fbd8c60c3"}}`
	SUT, rec := newMockClient(t, Config{StreamURL: "ws://localhost/markets"}, ok(body))

	got, err := SUT.CreateAccountStreamSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &StreamSession{
		URL: "wss://ws.tradier.com/v1/accounts/events", SessionID: "c8638963-a6d4-4fb9-9bc6-e25fbd8c60c3",
	}, got)
	req, _ := rec.last(t)
	assert.Equal(t, "/v1/accounts/events/session", req.URL.Path)

	got, err = SUT.CreateMarketStreamSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost/markets", got.URL)
	req, _ = rec.last(t)
	assert.Equal(t, "/v1/markets/events/session", req.URL.Path)
}

func TestClient_StreamSession_Missing(t *testing.T) {
	t.Parallel()

	SUT, _ := newMockClient(t, Config{}, ok(`{"stream":null}`))

	_, err := SUT.CreateAccountStreamSession(context.Background())

	var target *DecodingError
	assert.True(t, errors.As(err, &target))
}

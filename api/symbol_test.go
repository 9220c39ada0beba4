package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionSymbol(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		symbol     string
		expiration string
		optionType OptionType
		strike     float64
		want       string
		wantErr    bool
	}{
		"call":               {symbol: "aapl", expiration: "2024-01-19", optionType: Call, strike: 190, want: "AAPL240119C00190000"},
		"put":                {symbol: "SPY", expiration: "2019-03-29", optionType: Put, strike: 275, want: "SPY190329P00275000"},
		"fractional strike":  {symbol: "GE", expiration: "2018-06-22", optionType: Call, strike: 14.5, want: "GE180622C00014500"},
		"float rounding":     {symbol: "X", expiration: "2020-01-17", optionType: Put, strike: 190.1, want: "X200117P00190100"},
		"bad expiration":     {symbol: "X", expiration: "20200117", optionType: Put, strike: 1, wantErr: true},
		"bad option type":    {symbol: "X", expiration: "2020-01-17", optionType: "straddle", strike: 1, wantErr: true},
		"non positive price": {symbol: "X", expiration: "2020-01-17", optionType: Call, strike: 0, wantErr: true},
		"empty symbol":       {symbol: " ", expiration: "2020-01-17", optionType: Call, strike: 1, wantErr: true},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := OptionSymbol(tt.symbol, tt.expiration, tt.optionType, tt.strike)
			if tt.wantErr {
				var target *ValidationError
				require.ErrorAs(t, err, &target)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateChecks(t *testing.T) {
	t.Parallel()

	assert.True(t, isDate("2019-05-09"))
	assert.False(t, isDate("2019-5-9"))
	assert.False(t, isDate("2019-05-09 09:30"))
	assert.True(t, isDateTime("2019-05-09 09:30"))
	assert.False(t, isDateTime("2019-05-09T09:30"))
	assert.NoError(t, checkDate("start", ""))
	assert.NoError(t, checkOneOf("sort", "asc", "desc", "asc"))
	assert.Error(t, checkOneOf("sort", "up", "desc", "asc"))
}

package markets

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tradierkit/tradier/api"
	"github.com/tradierkit/tradier/cmd/cli"
	"github.com/tradierkit/tradier/utils/pool"
)

const (
	usage   = "markets"
	short   = "Query market data"
	long    = "This command prints quotes, option chains, the market calendar and historical bars as JSON"
	example = "tradier markets quotes AAPL SPY --config <path>"
)

var (
	// Cmd is the markets command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Aliases: []string{"m"},
		Example: example,
	}

	quotesCmd = &cobra.Command{
		Use:     "quotes <symbol>...",
		Short:   "Print quotes for one or more symbols",
		Example: "tradier markets quotes AAPL,SPY VXX190517P00016000 --greeks",
		Args:    cobra.MinimumNArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, args []string) (interface{}, error) {
			return c.GetQuotes(cmd.Context(), splitSymbols(args), greeks)
		}),
	}

	chainsCmd = &cobra.Command{
		Use:     "chains <symbol> <expiration>",
		Short:   "Print the option chain of a symbol for one expiration",
		Example: "tradier markets chains VXX 2019-05-17 --type put",
		Args:    cobra.ExactArgs(2),
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, args []string) (interface{}, error) {
			return c.GetOptionChains(cmd.Context(), args[0], args[1], greeks, api.OptionType(optionType))
		}),
	}

	calendarCmd = &cobra.Command{
		Use:   "calendar",
		Short: "Print the market calendar of a month, the current one by default",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, _ []string) (interface{}, error) {
			return c.GetCalendar(cmd.Context(), year, month)
		}),
	}

	historyCmd = &cobra.Command{
		Use:     "history <symbol>...",
		Short:   "Print daily, weekly or monthly bars, keyed by symbol when several are given",
		Example: "tradier markets history AAPL SPY --start 2019-05-01 --end 2019-05-31",
		Args:    cobra.MinimumNArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, args []string) (interface{}, error) {
			symbols := splitSymbols(args)
			if len(symbols) == 1 {
				return c.GetHistoricalQuotes(cmd.Context(), symbols[0], interval, start, end)
			}
			return historyOf(cmd.Context(), c, symbols)
		}),
	}

	greeks     bool
	optionType string
	year       string
	month      string
	interval   string
	start      string
	end        string
	parallel   int
)

const defaultParallel = 4

// nolint:gochecknoinits // cobra's standard way to initialize flags
func init() {
	quotesCmd.Flags().BoolVar(&greeks, "greeks", false, "include greeks for option symbols")

	chainsCmd.Flags().BoolVar(&greeks, "greeks", false, "include greeks")
	chainsCmd.Flags().StringVar(&optionType, "type", "", "only call or put contracts")

	calendarCmd.Flags().StringVar(&year, "year", "", "year, YYYY")
	calendarCmd.Flags().StringVar(&month, "month", "", "month, MM")

	historyCmd.Flags().StringVar(&interval, "interval", "daily", "daily, weekly or monthly")
	historyCmd.Flags().StringVar(&start, "start", "", "first date, YYYY-MM-DD")
	historyCmd.Flags().StringVar(&end, "end", "", "last date, YYYY-MM-DD")
	historyCmd.Flags().IntVar(&parallel, "parallel", defaultParallel, "symbols fetched concurrently")
	_ = historyCmd.MarkFlagRequired("start")
	_ = historyCmd.MarkFlagRequired("end")

	Cmd.AddCommand(quotesCmd, chainsCmd, calendarCmd, historyCmd)
}

type historyFetcher interface {
	GetHistoricalQuotes(ctx context.Context, symbol, interval, start, end string) ([]api.HistoricalBar, error)
}

// historyOf fetches the bars of every symbol on a bounded pool.
func historyOf(ctx context.Context, c historyFetcher, symbols []string) (map[string][]api.HistoricalBar, error) {
	var mu sync.Mutex
	bars := make(map[string][]api.HistoricalBar, len(symbols))

	p := pool.NewPool(parallel)
	for _, symbol := range symbols {
		symbol := symbol
		p.Go(ctx, func(ctx context.Context) error {
			b, err := c.GetHistoricalQuotes(ctx, symbol, interval, start, end)
			if err != nil {
				return errors.Wrapf(err, "history of %s", symbol)
			}
			mu.Lock()
			bars[symbol] = b
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return bars, nil
}

// splitSymbols accepts both "AAPL SPY" and "AAPL,SPY".
func splitSymbols(args []string) []string {
	var symbols []string
	for _, a := range args {
		for _, s := range strings.Split(a, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
	}
	return symbols
}

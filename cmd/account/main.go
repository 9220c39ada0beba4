package account

import (
	"github.com/spf13/cobra"

	"github.com/tradierkit/tradier/api"
	"github.com/tradierkit/tradier/cmd/cli"
)

const (
	usage   = "account"
	short   = "Query the configured brokerage account"
	long    = "This command prints the profile, balances, positions, orders and history of the configured account as JSON"
	example = "tradier account balances --config <path>"
)

var (
	// Cmd is the account command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Aliases: []string{"a"},
		Example: example,
	}

	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Print the user profile and its accounts",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, _ []string) (interface{}, error) {
			return c.GetUserProfile(cmd.Context())
		}),
	}

	balancesCmd = &cobra.Command{
		Use:   "balances",
		Short: "Print the account balances",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, _ []string) (interface{}, error) {
			return c.GetBalance(cmd.Context())
		}),
	}

	positionsCmd = &cobra.Command{
		Use:   "positions",
		Short: "Print the open positions",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, _ []string) (interface{}, error) {
			return c.GetPositions(cmd.Context())
		}),
	}

	ordersCmd = &cobra.Command{
		Use:   "orders",
		Short: "Print the orders of the account, every page unless --page is set",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, _ []string) (interface{}, error) {
			if ordersPage > 0 {
				return c.ListOrdersPage(cmd.Context(), ordersPage)
			}
			return c.ListOrders(cmd.Context())
		}),
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Print the account history",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, _ []string) (interface{}, error) {
			history.Type = api.HistoryType(historyType)
			return c.GetHistory(cmd.Context(), history)
		}),
	}

	gainLossCmd = &cobra.Command{
		Use:   "gainloss",
		Short: "Print the closed positions with their realized gain or loss",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, _ []string) (interface{}, error) {
			return c.GetGainLoss(cmd.Context(), gainLoss)
		}),
	}

	ordersPage  int
	history     api.HistoryParams
	historyType string
	gainLoss    api.GainLossParams
)

// nolint:gochecknoinits // cobra's standard way to initialize flags
func init() {
	ordersCmd.Flags().IntVar(&ordersPage, "page", 0, "fetch a single page of orders")

	f := historyCmd.Flags()
	f.IntVar(&history.Page, "page", 0, "page number, 1 by default")
	f.IntVar(&history.Limit, "limit", 0, "events per page, 25 by default")
	f.StringVar(&historyType, "type", "", "only events of this type (trade, option, ach, dividend, ...)")
	f.StringVar(&history.Start, "start", "", "first date, YYYY-MM-DD")
	f.StringVar(&history.End, "end", "", "last date, YYYY-MM-DD")
	f.StringVar(&history.Symbol, "symbol", "", "only events for this symbol")
	f.BoolVar(&history.ExactMatch, "exact", false, "match --symbol exactly")

	f = gainLossCmd.Flags()
	f.IntVar(&gainLoss.Page, "page", 0, "page number, 1 by default")
	f.IntVar(&gainLoss.Limit, "limit", 0, "positions per page, 25 by default")
	f.StringVar(&gainLoss.SortBy, "sort-by", "", "closeDate or openDate")
	f.StringVar(&gainLoss.Sort, "sort", "", "desc or asc")
	f.StringVar(&gainLoss.Start, "start", "", "first close date, YYYY-MM-DD")
	f.StringVar(&gainLoss.End, "end", "", "last close date, YYYY-MM-DD")
	f.StringVar(&gainLoss.Symbol, "symbol", "", "only positions in this symbol")

	Cmd.AddCommand(profileCmd, balancesCmd, positionsCmd, ordersCmd, historyCmd, gainLossCmd)
}

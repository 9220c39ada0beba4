package order

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tradierkit/tradier/api"
	"github.com/tradierkit/tradier/cmd/cli"
)

const (
	usage   = "order"
	short   = "Inspect or cancel a single order"
	long    = "This command prints or cancels one order of the configured account"
	example = "tradier order get 228175 --config <path>"
)

var (
	// Cmd is the order command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Aliases: []string{"o"},
		Example: example,
	}

	getCmd = &cobra.Command{
		Use:   "get <order id>",
		Short: "Print one order with its legs",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, args []string) (interface{}, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return c.GetOrder(cmd.Context(), id)
		}),
	}

	cancelCmd = &cobra.Command{
		Use:   "cancel <order id>",
		Short: "Cancel an open order",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, c *api.Client, args []string) (interface{}, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return c.CancelOrder(cmd.Context(), id)
		}),
	}
)

// nolint:gochecknoinits // cobra's standard way to initialize flags
func init() {
	Cmd.AddCommand(getCmd, cancelCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid order id %q", s)
	}
	return id, nil
}

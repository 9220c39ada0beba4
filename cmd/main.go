package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tradierkit/tradier/cmd/account"
	"github.com/tradierkit/tradier/cmd/cli"
	"github.com/tradierkit/tradier/cmd/markets"
	"github.com/tradierkit/tradier/cmd/order"
	"github.com/tradierkit/tradier/cmd/relay"
	"github.com/tradierkit/tradier/utils"
	"github.com/tradierkit/tradier/utils/log"
)

// flagPrintVersion set flag to show current tradier version.
var flagPrintVersion bool

// Execute builds the command tree and executes commands.
func Execute(ctx context.Context) error {
	defer log.Sync()

	// c is the root command.
	c := &cobra.Command{
		Use:   "tradier",
		Short: "Tradier brokerage client and account event relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Print version if specified.
			if flagPrintVersion {
				log.Info("version: %+v", utils.Tag)
				log.Info("commit hash: %+v", utils.GitHash)
				log.Info("utc build time: %+v", utils.BuildStamp)
				return nil
			}
			// Print information regarding usage.
			return cmd.Usage()
		},
	}

	// Adds subcommands and version flag.
	c.AddCommand(account.Cmd)
	c.AddCommand(markets.Cmd)
	c.AddCommand(order.Cmd)
	c.AddCommand(relay.Cmd)
	cli.AddConfigFlag(c)
	c.Flags().BoolVarP(&flagPrintVersion, "version", "v", false, "show the version info and exit")

	return c.ExecuteContext(ctx)
}

package relay

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tradierkit/tradier/api"
	"github.com/tradierkit/tradier/cmd/cli"
	"github.com/tradierkit/tradier/sink"
	"github.com/tradierkit/tradier/stream"
	"github.com/tradierkit/tradier/utils"
	"github.com/tradierkit/tradier/utils/log"
)

const (
	usage   = "stream"
	short   = "Relay account or market events to the configured sink"
	long    = "This command opens a streaming session and forwards every event to the sink configured in the YAML file until SIGINT or SIGTERM"
	example = "tradier stream market SPY AAPL --filter trade,quote --config <path>"

	stopGracePeriod = 5 * time.Second
)

var (
	// Cmd is the stream command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Aliases: []string{"relay"},
		Example: example,
	}

	accountCmd = &cobra.Command{
		Use:   "account",
		Short: "Relay order events of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, func(c *api.Client) *stream.Relay {
				var opts []stream.Option
				if orderDetail {
					opts = append(opts, stream.WithOrderDetail(c))
				}
				return stream.NewAccountRelay(c, excludeAccounts, opts...)
			})
		},
	}

	marketCmd = &cobra.Command{
		Use:   "market <symbol>...",
		Short: "Relay trades, quotes, summaries and time sales for symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub := stream.MarketSubscription{
				Symbols:         args,
				IncludeInvalid:  includeInvalid,
				AdvancedDetails: advancedDetails,
			}
			for _, f := range filter {
				sub.Filter = append(sub.Filter, stream.EventKind(f))
			}
			return execute(cmd, func(c *api.Client) *stream.Relay {
				return stream.NewMarketRelay(c, sub)
			})
		},
	}

	excludeAccounts []string
	orderDetail     bool
	filter          []string
	includeInvalid  bool
	advancedDetails bool
)

// nolint:gochecknoinits // cobra's standard way to initialize flags
func init() {
	accountCmd.Flags().StringSliceVar(&excludeAccounts, "exclude", nil, "account numbers to leave out")
	accountCmd.Flags().BoolVar(&orderDetail, "detail", false, "attach the full order to every order event")

	marketCmd.Flags().StringSliceVar(&filter, "filter", nil, "event kinds to receive: trade, quote, summary, timesale, tradex")
	marketCmd.Flags().BoolVar(&includeInvalid, "include-invalid", false, "also receive prints from exchanges flagged as invalid")
	marketCmd.Flags().BoolVar(&advancedDetails, "advanced", false, "receive tradex events instead of trade")

	Cmd.AddCommand(accountCmd, marketCmd)
}

// execute runs relay until a signal arrives or the stream ends.
func execute(cmd *cobra.Command, build func(*api.Client) *stream.Relay) error {
	cmd.SilenceUsage = true

	c, cfg, err := cli.Client()
	if err != nil {
		return err
	}

	s, err := sink.New(cfg.Sink, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err2 := s.Close(); err2 != nil {
			log.Error("failed to close %s sink: %v", cfg.Sink.Type, err2)
		}
	}()

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := build(c)
	r.HandleAll(sink.Handler(ctx, s))
	r.OnError(func(err error) {
		log.Warn("[tradier stream] %v", err)
	})

	log.Info("forwarding events to the %s sink...", cfg.Sink.Type)
	if err := r.Start(ctx); err != nil {
		return err
	}
	return wait(ctx, r)
}

func wait(ctx context.Context, r *stream.Relay) error {
	select {
	case <-r.Done():
		return r.Err()
	case <-ctx.Done():
		log.Info("initiating graceful shutdown, waiting up to %v...", stopGracePeriod)
	}

	select {
	case <-r.Done():
	case <-time.After(stopGracePeriod):
		log.Warn("stream did not close within %v", stopGracePeriod)
	}
	return nil
}

func serveMetrics(cfg *utils.Config) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info("launching prometheus metrics server on %s...", cfg.MetricsAddr)
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.Error("metrics server error: %v", err)
	}
}

// Package cli holds what the tradier subcommands share: the config flag,
// client construction and JSON output.
package cli

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tradierkit/tradier/api"
	"github.com/tradierkit/tradier/utils"
	"github.com/tradierkit/tradier/utils/log"
)

const configDesc = "set the path for the tradier YAML configuration file"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ConfigPath is bound to the persistent --config flag of the root command.
var ConfigPath string

// AddConfigFlag registers --config/-c on c and its subcommands.
func AddConfigFlag(c *cobra.Command) {
	c.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", configDesc)
}

// Client loads the configuration and builds a REST client from it.
func Client() (*api.Client, *utils.Config, error) {
	if ConfigPath != "" {
		log.Debug("using %v for configuration", ConfigPath)
	}
	cfg, err := utils.LoadConfig(ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	return api.NewClient(cfg.ClientConfig()), cfg, nil
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Run wraps a subcommand body: it silences usage once the arguments parsed,
// builds the client and prints whatever fn returns.
func Run(fn func(cmd *cobra.Command, c *api.Client, args []string) (interface{}, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		c, _, err := Client()
		if err != nil {
			return err
		}
		v, err := fn(cmd, c, args)
		if err != nil {
			return err
		}
		return PrintJSON(cmd.OutOrStdout(), v)
	}
}

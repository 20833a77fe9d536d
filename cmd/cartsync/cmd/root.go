// Package cmd implements the cartsync CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cartsync/cartsync"
	"github.com/cartsync/cartsync/internal/cmd/output"
	"github.com/cartsync/cartsync/internal/config"
	"github.com/cartsync/cartsync/pkg/items"
	"github.com/cartsync/cartsync/pkg/logging"
)

var (
	cfgFile      string
	outputFormat string
	listName     string
	verbose      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cartsync",
	Short: "Manage a shopping list synchronized with a Grosh account",
	Long: `Cartsync keeps a local shopping list in sync with a remote Grosh
household list. Items added, completed, or cleared here are pushed to the
remote list, and changes made from other devices are pulled back in after
every command.

Credentials come from CARTSYNC_USERNAME and CARTSYNC_PASSWORD, a .env
file, or a config.yaml in the working directory or ~/.cartsync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetLevel("debug")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.cartsync/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json, or yaml (default: table on a terminal, json otherwise)")
	rootCmd.PersistentFlags().StringVar(&listName, "list", "", "remote list to operate on (default: the account's current list)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// newClient assembles configuration and opens a session against the remote.
// Callers must Close the returned client.
func newClient(cmd *cobra.Command) (cartsync.CartSync, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return cartsync.New(cmd.Context(), clientOptions(cfg, listName)...)
}

// clientOptions maps the loaded configuration to facade options. The --list
// flag overrides the configured list.
func clientOptions(cfg *config.Config, listOverride string) []cartsync.Option {
	opts := []cartsync.Option{
		cartsync.WithCredentials(cfg.Username, cfg.Password),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, cartsync.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Locale != "" {
		opts = append(opts, cartsync.WithLocale(cfg.Locale))
	}
	if cfg.StoragePath != "" {
		opts = append(opts, cartsync.WithStoragePath(cfg.StoragePath))
	}
	if cfg.SyncInterval > 0 {
		opts = append(opts, cartsync.WithAutoSync(cfg.SyncInterval))
	}
	name := cfg.List
	if listOverride != "" {
		name = listOverride
	}
	if name != "" {
		opts = append(opts, cartsync.WithListName(name))
	}
	return opts
}

// formatter resolves the output format from the --output flag, the config
// file, and the terminal.
func formatter(cmd *cobra.Command) (output.Formatter, error) {
	explicit := outputFormat
	if explicit == "" {
		if cfg, err := config.Load(cfgFile); err == nil && cfg.Output != "table" {
			explicit = cfg.Output
		}
	}
	format, err := output.ParseFormat(explicit)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = output.DetectFormat("")
	}
	return output.NewFormatter(format), nil
}

// itemsData renders records for table output.
func itemsData(records []items.Record) output.Data {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		done := ""
		if rec.Complete {
			done = "x"
		}
		rows = append(rows, []string{rec.ID, rec.Name, done, rec.Amount})
	}
	return output.Data{
		Headers: []string{"ID", "Name", "Done", "Amount"},
		Rows:    rows,
	}
}

// printRecords writes records in the selected format. Structured formats
// get the raw records; tables get the rendered form.
func printRecords(cmd *cobra.Command, records []items.Record) error {
	f, err := formatter(cmd)
	if err != nil {
		return err
	}
	if _, ok := f.(*output.TableFormatter); ok {
		return f.Format(cmd.OutOrStdout(), itemsData(records))
	}
	return f.Format(cmd.OutOrStdout(), records)
}

package cmd

import (
	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the latest remote state",
	Long: `Sync reconciles the local list against the remote and shows the
result. Remote changes are merged in; local-only items are kept.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Sync(cmd.Context()); err != nil {
		return err
	}

	return printRecords(cmd, client.Items())
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// switchCmd represents the switch command
var switchCmd = &cobra.Command{
	Use:   "switch <list name>...",
	Short: "Switch to another remote list",
	Long: `Switch discards the local list and replaces it with the contents
of the named remote list. The match against remote list names is exact.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	name := strings.Join(args, " ")
	if err := client.SwitchList(cmd.Context(), name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Switched to %q\n", name)
	return printRecords(cmd, client.Items())
}

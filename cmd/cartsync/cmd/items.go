package cmd

import (
	"github.com/spf13/cobra"
)

// itemsCmd represents the items command
var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Show the shopping list",
	Long: `Items displays the current shopping list after pulling the latest
state from the remote. Linked items show their grocery id in brackets,
e.g. "Milk [27]".`,
	RunE: runItems,
}

func init() {
	rootCmd.AddCommand(itemsCmd)
}

func runItems(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	return printRecords(cmd, client.Items())
}

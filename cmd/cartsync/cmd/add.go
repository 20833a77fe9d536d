package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Add an item to the shopping list",
	Long: `Add inserts a new item and pushes it to the remote list. Multiple
words form a single item name:

  cartsync add Whole Milk

A name ending in a bracketed id links the item to a catalog grocery:

  cartsync add "Milk [27]"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	itm, err := client.Add(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", itm.DisplayName())
	return nil
}

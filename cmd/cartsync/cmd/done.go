package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cartsync/cartsync/pkg/items"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark an item as bought",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

// undoneCmd represents the undone command
var undoneCmd = &cobra.Command{
	Use:   "undone <id>",
	Short: "Put a bought item back on the pending list",
	Args:  cobra.ExactArgs(1),
	RunE:  runUndone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	return setBought(cmd, args[0], true)
}

func runUndone(cmd *cobra.Command, args []string) error {
	return setBought(cmd, args[0], false)
}

func setBought(cmd *cobra.Command, id string, bought bool) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	itm, err := client.Update(cmd.Context(), id, items.Patch{Bought: &bought})
	if err != nil {
		return err
	}

	state := "pending"
	if itm.Bought {
		state = "bought"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%q is now %s\n", itm.DisplayName(), state)
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cartsync/cartsync/pkg/items"
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <id> <new name>...",
	Short: "Rename an item",
	Long: `Rename changes an item's name. The remote entry is removed and
recreated under the new name, and the item keeps its bought state.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	name := strings.Join(args[1:], " ")
	itm, err := client.Update(cmd.Context(), args[0], items.Patch{Name: &name})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %q\n", itm.DisplayName())
	return nil
}

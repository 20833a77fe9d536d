package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cartsync/cartsync/internal/cmd/output"
)

// listsCmd represents the lists command
var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show all remote lists visible to the account",
	RunE:  runLists,
}

func init() {
	rootCmd.AddCommand(listsCmd)
}

func runLists(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	names, err := client.Lists(cmd.Context())
	if err != nil {
		return err
	}
	active := client.ActiveList()

	f, err := formatter(cmd)
	if err != nil {
		return err
	}
	if _, ok := f.(*output.TableFormatter); ok {
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			marker := ""
			if name == active {
				marker = "*"
			}
			rows = append(rows, []string{name, marker})
		}
		return f.Format(cmd.OutOrStdout(), output.Data{
			Headers: []string{"Name", "Active"},
			Rows:    rows,
		})
	}
	return f.Format(cmd.OutOrStdout(), names)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, catalog := openStore()
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		if err := catalog.Refresh(); err != nil {
			return fmt.Errorf("failed to refresh catalog: %w", err)
		}
		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

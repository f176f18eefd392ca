package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session document",
	Long:  `Export the full session document, including turns and the tool-call audit trail, as YAML or JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _ := openStore()
		sess, err := store.Load(args[0])
		if err != nil {
			return err
		}

		var out []byte
		switch exportFormat {
		case "yaml":
			out, err = yaml.Marshal(sess)
		case "json":
			out, err = json.MarshalIndent(sess, "", "  ")
		default:
			return fmt.Errorf("unsupported export format %q", exportFormat)
		}
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "Export format: yaml or json")
}

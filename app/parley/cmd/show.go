package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var showToolCalls bool

var roleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212"))

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupContext()

		tel, err := createTelemetryProvider(ctx)
		if err != nil {
			return fmt.Errorf("failed to create telemetry provider: %w", err)
		}
		defer func() { _ = tel.Shutdown(ctx) }()

		_, span := tel.StartSpan(ctx, "sessions.show")
		defer span.End()

		store, _ := openStore()
		sess, err := store.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render(sess.Title))
		fmt.Printf("%s  created %s  %d turn(s)\n\n",
			idStyle.Render(sess.ID),
			dateStyle.Render(sess.CreatedAt.Format("2006-01-02 15:04")),
			len(sess.Turns),
		)

		for _, t := range sess.Turns {
			label := string(t.Role)
			if t.IsToolInvocation() {
				label = fmt.Sprintf("%s (tool call: %v)", t.Role, t.ToolCallIDs)
			} else if t.IsToolResult() {
				label = fmt.Sprintf("%s (%s)", t.Role, t.ToolCallID)
			}
			fmt.Println(roleStyle.Render(label))
			if t.Text != "" {
				fmt.Println(t.Text)
			}
			if len(t.Images) > 0 {
				fmt.Printf("[%d image(s) attached]\n", len(t.Images))
			}
			fmt.Println()
		}

		if showToolCalls && len(sess.ToolCalls) > 0 {
			fmt.Println(headerStyle.Render("Tool calls"))
			for _, rec := range sess.ToolCalls {
				fmt.Printf("%s %s(%s)\n", dateStyle.Render(rec.Timestamp.Format("15:04:05")), rec.Name, rec.Arguments)
				if rec.Result != "" {
					fmt.Printf("  -> %s\n", truncateResult(rec.Result))
				}
			}
		}
		return nil
	},
}

func truncateResult(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showToolCalls, "tool-calls", false, "Include the tool-call audit trail")
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	Long:  `List stored conversation sessions, most recently modified first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupContext()

		tel, err := createTelemetryProvider(ctx)
		if err != nil {
			return fmt.Errorf("failed to create telemetry provider: %w", err)
		}
		defer func() { _ = tel.Shutdown(ctx) }()

		_, span := tel.StartSpan(ctx, "sessions.list")
		defer span.End()

		_, catalog := openStore()
		if err := catalog.Refresh(); err != nil {
			return fmt.Errorf("failed to scan sessions: %w", err)
		}

		summaries := catalog.Sessions()
		if len(summaries) == 0 {
			fmt.Println(headerStyle.Render("No sessions found"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(summaries))))
		fmt.Println()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTitle\tMessages\tModified")
		fmt.Fprintln(w, strings.Repeat("─", 72))
		for _, s := range summaries {
			title := s.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				idStyle.Render(s.ID),
				title,
				countStyle.Render(strconv.Itoa(s.MessageCount)),
				dateStyle.Render(formatModified(s.LastModifiedAt)),
			)
		}
		return w.Flush()
	},
}

func formatModified(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}

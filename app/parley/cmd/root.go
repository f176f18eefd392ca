package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajmckee/parley/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Durable conversation sessions with continuation resumption",
	Long: `Parley maintains durable records of multi-turn conversations with a
stateful remote completion API and reconstructs the minimal payload needed
to continue them. This CLI inspects and manages the stored sessions.`,
	PersistentPreRun: loadRootConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(cmd *cobra.Command, _ []string) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg = config.Load()
	if dir, err := cmd.Flags().GetString("sessions-dir"); err == nil && dir != "" {
		cfg.SessionsDir = dir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().String("sessions-dir", "", "Session storage root (defaults to $PARLEY_SESSIONS_DIR or ~/.parley/sessions)")
}

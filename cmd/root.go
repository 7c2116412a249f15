package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Solesoul2/flashcard2/internal/db"
	"github.com/Solesoul2/flashcard2/internal/profile"
)

var instanceProfile *profile.Profile

var rootCmd = &cobra.Command{
	Use:   "flashcard2",
	Short: "A spaced repetition flashcard tool",
	Long: `flashcard2 keeps flashcards in folders and schedules them with the
SM-2 algorithm. Answers may contain "* " checklist items; how many you
check off while studying decides the rating.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Println("⚠️  Could not load .env:", err)
		}

		instanceProfile = profile.FromViper(viper.GetViper())
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: instanceProfile.Level(),
		})))
		return instanceProfile.Validate()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	profile.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().String("mode", "prod", `mode of the database file, "prod" or "dev"`)
	rootCmd.PersistentFlags().String("data", "", "data directory (default ~/.flashcard2)")
	rootCmd.PersistentFlags().String("dsn", "", "sqlite database file (default <data>/flashcard2.db)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("hide-unmarked", false, "hide answer text not followed by a checklist item")

	for _, name := range []string{"mode", "data", "dsn", "log-level", "hide-unmarked"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// openStore opens the database named by the active profile, printing the
// failure for the user.
func openStore() (*db.Store, bool) {
	store, err := db.NewStore(instanceProfile.DSN)
	if err != nil {
		fmt.Println("❌ Database error:", err)
		return nil, false
	}
	return store, true
}

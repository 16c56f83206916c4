// chicken is a terminal party game: four players walk toward the center
// and whoever stops closest without colliding wins.
//
// Usage:
//
//	chicken list              - List round variants
//	chicken play [variant]    - Play a round (default chicken-1p)
//	chicken menu              - Pick variants interactively
//	chicken serve             - Start SSH server for remote and online play
//	chicken scores <variant>  - Show high scores and stats for a variant
//	chicken history           - Show recent rounds
//	chicken matches           - Show recent online matches
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible rounds
//	--db <path>        - Set database path (default: ~/.chicken/rounds.db)
//	--log-file <path>  - Write logs to a file (default: ~/.chicken/chicken.log)
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-arcade/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/chicken-arcade/internal/games/chicken"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chicken",
	Short: "Chicken - who stops closest to the center?",
	Long: `Chicken is a terminal party game for up to four players.

Everyone starts on a ring and walks toward the center. Press your key to
stop. Two players who both reach the center collide and are out. The
survivor who stopped closest to the center wins.

Available commands:
  list     - Show round variants
  play     - Play a round directly
  menu     - Interactive variant picker
  serve    - Start SSH server for remote and online play
  scores   - View high scores
  history  - View recent rounds
  matches  - View recent online matches

Examples:
  chicken play
  chicken play chicken-2p --difficulty hard
  chicken menu
  chicken serve --ssh :2222 --ws :8080`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.chicken/rounds.db", "Path to rounds database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.chicken/chicken.log", "Log file for local play (empty = discard)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(matchesCmd)
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// openLogger returns a logger writing to --log-file. The terminal belongs
// to Bubble Tea during play, so local logs never go to stderr. The returned
// func closes the file.
func openLogger() (*log.Logger, func()) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "chicken",
		Level:           level,
	}

	if flagLogFile == "" {
		return log.NewWithOptions(nopWriter{}, opts), func() {}
	}

	path := expandHome(flagLogFile)
	if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
		return log.NewWithOptions(nopWriter{}, opts), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.NewWithOptions(nopWriter{}, opts), func() {}
	}
	return log.NewWithOptions(f, opts), func() { f.Close() }
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// openStore opens the rounds database. Play continues without one.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open rounds database: %v\n", err)
		if logger != nil {
			logger.Warn("rounds database unavailable", "path", flagDBPath, "error", err)
		}
		return nil
	}
	return store
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chicken-arcade/internal/config"
	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/games/chicken"
	"github.com/vovakirdan/chicken-arcade/internal/platform/tui"
	"github.com/vovakirdan/chicken-arcade/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
	flagHumans     int
	flagQuiet      bool
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a round",
	Long: `Start a round of the specified variant (default chicken-1p).

Seats that are not human are played by the computer.

Controls:
  Space or 1  - P1 stop
  Enter or 2  - P2 stop
  L or 3      - P3 stop
  A or 4      - P4 stop
  P/Esc       - Pause
  R           - Play again (after the round)
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Computer players wait long and react slowly
  normal - Default
  hard   - Computer players stop close to the center and react fast

Examples:
  chicken play
  chicken play chicken-2p
  chicken play --humans 3 --difficulty hard
  chicken play --config ./my-chicken.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom round config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().IntVar(&flagHumans, "humans", 0, "Number of human players (1-4); overrides the variant")
	playCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Do not ring the terminal bell on round cues")
}

// terminalConfig builds a RuntimeConfig sized to the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := chicken.VariantID(1)
	if len(args) > 0 {
		gameID = args[0]
	}
	if flagHumans > 0 {
		if flagHumans > config.MaxHumans {
			fmt.Fprintf(os.Stderr, "Error: --humans must be between 1 and %d\n", config.MaxHumans)
			os.Exit(1)
		}
		gameID = chicken.VariantID(flagHumans)
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'chicken list' to see available variants.")
		os.Exit(1)
	}

	chicken.SetConfigPath(flagConfig)
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		chicken.SetDifficultyPreset(preset)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := openLogger()
	store := openStore(logger)

	opts := tui.Options{Logger: logger}
	if !flagQuiet {
		opts.Bell = os.Stdout
	}
	runErr := tui.Run(game, store, terminalConfig(), opts)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}
	closeLog()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

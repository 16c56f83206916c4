package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-arcade/internal/config"
	"github.com/vovakirdan/chicken-arcade/internal/games/chicken"
	"github.com/vovakirdan/chicken-arcade/internal/platform/tui"
	"github.com/vovakirdan/chicken-arcade/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a variant picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a variant and left/right to change the
computer difficulty. After a round you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change difficulty
  Enter/Space  - Start round
  Tab          - Round history
  Q            - Quit

Examples:
  chicken menu
  chicken menu --fps 30
  chicken menu --db ./rounds.db`,
	Run: runMenu,
}

// difficultySetter is implemented by games whose computer players take a
// per-round difficulty.
type difficultySetter interface {
	SetDifficulty(preset config.DifficultyPreset)
}

func init() {
	// Uses global flags from main.go (--fps, --seed, --db) and play's --config
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom round config YAML")
	menuCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Do not ring the terminal bell on round cues")
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := openLogger()
	defer closeLog()

	chicken.SetConfigPath(flagConfig)
	store := openStore(logger)
	cfg := terminalConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		if menuResult.GameID == "" {
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if d, ok := game.(difficultySetter); ok {
			d.SetDifficulty(menuResult.Difficulty)
		}

		// New seed for each round
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		opts := tui.Options{Logger: logger}
		if !flagQuiet {
			opts.Bell = os.Stdout
		}
		if err := tui.Run(game, store, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}

	if store != nil {
		store.Close()
	}
}

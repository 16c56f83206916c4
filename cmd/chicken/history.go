package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-arcade/internal/storage"
)

var (
	flagHistoryLimit int
	flagRoundID      string
)

var historyCmd = &cobra.Command{
	Use:   "history [variant]",
	Short: "Show recent rounds",
	Long: `List the most recent rounds, optionally of one variant.

With --round, show where every player of that round ended up.

Examples:
  chicken history
  chicken history chicken-2p --limit 5
  chicken history --round 2f1c...`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of rounds to show")
	historyCmd.Flags().StringVar(&flagRoundID, "round", "", "Show the players of one round")
}

func runHistory(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening rounds database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRoundID != "" {
		showRound(store, flagRoundID)
		return
	}

	gameID := ""
	if len(args) > 0 {
		gameID = args[0]
	}

	rounds, err := store.RecentRounds(gameID, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving rounds: %v\n", err)
		os.Exit(1)
	}
	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		return
	}

	fmt.Printf("  %-36s  %-10s  %-16s  %-6s  %-5s  %s\n", "Round", "Variant", "Date", "Winner", "Score", "Time")
	for _, r := range rounds {
		fmt.Printf("  %-36s  %-10s  %-16s  %-6s  %-5d  %.1fs\n",
			r.ID, r.GameID, r.CreatedAt.Format("2006-01-02 15:04"), roundWinner(r), r.Score, r.Elapsed)
	}
}

func showRound(store *storage.Store, id string) {
	r, err := store.Round(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving round: %v\n", err)
		os.Exit(1)
	}
	if r == nil {
		fmt.Fprintf(os.Stderr, "Error: no round %q\n", id)
		os.Exit(1)
	}

	fmt.Printf("Round %s (%s, %s)\n", r.ID, r.GameID, r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Winner: %s  Score: %d  Ticks: %d  Time: %.1fs\n", roundWinner(*r), r.Score, r.Ticks, r.Elapsed)
	fmt.Println()
	fmt.Printf("  %-4s  %-5s  %-8s  %s\n", "Slot", "Seat", "Status", "Distance")
	for _, p := range r.Players {
		seat := "AI"
		if p.Human {
			seat = "Human"
		}
		status := "out"
		switch {
		case p.Alive && p.Stopped:
			status = "stopped"
		case p.Alive:
			status = "walking"
		}
		fmt.Printf("  P%-3d  %-5s  %-8s  %.2f\n", p.Slot+1, seat, status, p.Distance)
	}
}

func roundWinner(r storage.RoundRecord) string {
	switch {
	case r.Aborted:
		return "quit"
	case r.HasWinner():
		return fmt.Sprintf("P%d", r.WinnerSlot+1)
	default:
		return "none"
	}
}

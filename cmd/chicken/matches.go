package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-arcade/internal/storage"
)

var (
	flagMatchLimit   int
	flagMatchSession string
	flagMatchID      string
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Show recent online matches",
	Long: `List online rounds played on this server's database.

Examples:
  chicken matches
  chicken matches --session alice-1712345678
  chicken matches --id 7d9e...`,
	Args: cobra.NoArgs,
	Run:  runMatches,
}

func init() {
	matchesCmd.Flags().IntVar(&flagMatchLimit, "limit", 20, "Number of matches to show")
	matchesCmd.Flags().StringVar(&flagMatchSession, "session", "", "Only matches this session played in")
	matchesCmd.Flags().StringVar(&flagMatchID, "id", "", "Show one match")
}

func runMatches(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening rounds database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var matches []storage.OnlineMatchResult
	switch {
	case flagMatchID != "":
		m, err := store.OnlineMatchByID(flagMatchID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving match: %v\n", err)
			os.Exit(1)
		}
		if m == nil {
			fmt.Fprintf(os.Stderr, "Error: no match %q\n", flagMatchID)
			os.Exit(1)
		}
		matches = append(matches, *m)
	case flagMatchSession != "":
		matches, err = store.PlayerMatchHistory(flagMatchSession, flagMatchLimit)
	default:
		matches, err = store.RecentOnlineMatches(flagMatchLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}
	if len(matches) == 0 {
		fmt.Println("No online matches recorded yet.")
		return
	}

	for _, m := range matches {
		winner := "none"
		if m.WinnerSlot != storage.NoWinner {
			winner = fmt.Sprintf("P%d", m.WinnerSlot+1)
			if s := m.WinnerSession(); s != "" {
				winner += " (" + s + ")"
			}
		}
		fmt.Printf("%s  %s  %-10s  %3ds  winner %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.MatchID, m.EndReason, m.Duration, winner)
		for slot, session := range m.Sessions {
			if session == "" {
				session = "computer"
			}
			fmt.Printf("    P%d  %-32s  %d\n", slot+1, session, m.Scores[slot])
		}
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chicken-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List round variants",
	Long:  `Shows every registered variant and how many of its four seats are human.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No variants available.")
		return
	}

	fmt.Println("Available variants:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "ID", "Humans", "Title")
	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "--", "------", "-----")

	for _, g := range games {
		fmt.Printf("  %-*s  %-6d  %s\n", maxIDLen, g.ID, g.Humans, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'chicken play <id>' to play a round.")
}

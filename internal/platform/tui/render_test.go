package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawText(0, 0, "Get ready")
	s.DrawTextColor(2, 1, "P1", core.ColorRed)
	s.DrawTextColor(5, 1, "P2", core.ColorBlue)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("RenderScreen produced %d lines, expected 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Get ready") {
		t.Errorf("uncolored row = %q", lines[0])
	}
	for _, label := range []string{"P1", "P2"} {
		if !strings.Contains(lines[1], label) {
			t.Errorf("row 1 %q is missing %s", lines[1], label)
		}
	}
}

func TestStyleForUnknownColor(t *testing.T) {
	if got := styleFor(core.Color(250)).Render("x"); got != "x" {
		t.Errorf("unknown color should render plain, got %q", got)
	}
}

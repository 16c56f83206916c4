package chicken

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

const (
	minScreenW = 40
	minScreenH = 16
	hudTop     = 2 // title line + separator
	bannerRows = 2 // countdown/result + hint
	arenaTop   = hudTop + bannerRows
	hudBottom  = 2 // separator + player line
	goShowTime = 1.0
)

// Render draws the round top-down: the center ring, the players and the HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.view()

	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		dst.DrawTextCentered(dst.Height()/2, "Window too small", core.ColorDefault)
		return
	}

	renderHUD(dst, snap, g.humans)

	a := newArena(dst, snap.StartDistance)
	a.drawRing(dst, snap.HitRadius)
	for _, ag := range snap.Agents {
		a.drawAgent(dst, ag)
	}

	renderBanner(dst, snap, !g.online)
}

// arena maps the X/Z ground plane onto screen cells. Terminal cells are
// about twice as tall as wide, so X is scaled twice as much as Z.
type arena struct {
	cx, cy int
	sx, sz float64
}

func newArena(dst *core.Screen, startDistance float64) arena {
	top := arenaTop
	h := dst.Height() - arenaTop - hudBottom
	reach := math.Max(startDistance, 1) * 1.1

	sz := float64(h/2-1) / reach
	sx := math.Min(2*sz, float64(dst.Width()/2-2)/reach)
	sz = sx / 2

	return arena{
		cx: dst.Width() / 2,
		cy: top + h/2,
		sx: sx,
		sz: sz,
	}
}

func (a arena) cell(x, z float64) (int, int) {
	return a.cx + int(math.Round(x*a.sx)), a.cy + int(math.Round(z*a.sz))
}

func (a arena) drawRing(dst *core.Screen, radius float64) {
	steps := max(16, int(radius*a.sx*4))
	for i := range steps {
		t := 2 * math.Pi * float64(i) / float64(steps)
		x, y := a.cell(radius*math.Cos(t), radius*math.Sin(t))
		dst.SetColor(x, y, '·', core.ColorSand)
	}
	dst.SetColor(a.cx, a.cy, '+', core.ColorOrange)
}

func (a arena) drawAgent(dst *core.Screen, ag AgentSnapshot) {
	id := core.PlayerID(ag.Slot)
	color := core.PlayerColor(id)
	x, y := a.cell(ag.X, ag.Z)

	if !ag.Alive {
		dst.SetColor(x, y, 'x', core.ColorGray)
		return
	}
	dst.SetColor(x, y, rune('1'+ag.Slot), color)
	label := id.String()
	dst.DrawTextColor(x-len(label)/2, y-1, label, color)
}

func renderHUD(dst *core.Screen, snap Snapshot, humans int) {
	title := fmt.Sprintf(" %s - %s", Name, Description)
	dst.DrawTextColor(0, 0, title, core.ColorWhite)
	clock := fmt.Sprintf("%5.1fs ", snap.Elapsed)
	dst.DrawText(dst.Width()-len(clock), 0, clock)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}

	y := dst.Height() - 1
	for x := range dst.Width() {
		dst.Set(x, y-1, '─')
	}
	col := 1
	for _, ag := range snap.Agents {
		seg := playerStatus(ag, humans)
		dst.DrawTextColor(col, y, seg, core.PlayerColor(core.PlayerID(ag.Slot)))
		col += len([]rune(seg)) + 2
	}
}

func playerStatus(ag AgentSnapshot, humans int) string {
	who := " CPU"
	if ag.Human {
		who = ""
		if humans == 1 {
			who = " You"
		}
	}
	state := "walk"
	switch {
	case !ag.Alive:
		state = "out"
	case ag.Stopped:
		state = "stop"
	}
	return fmt.Sprintf("%s%s %3.0fm %s", core.PlayerID(ag.Slot), who, ag.Distance, state)
}

// renderBanner draws the countdown, the result or the pause notice.
func renderBanner(dst *core.Screen, snap Snapshot, local bool) {
	y := hudTop
	switch {
	case snap.Aborted:
		dst.DrawTextCentered(y, "Round abandoned", core.ColorGray)
	case snap.Paused:
		dst.DrawTextCentered(y, "Paused - press P to continue", core.ColorWhite)
	case !snap.Released:
		left := math.Max(0, snap.GoDelay-snap.Elapsed)
		dst.DrawTextCentered(y, fmt.Sprintf("Get ready... %d", int(math.Ceil(left))), core.ColorYellow)
	case snap.Phase == PhaseActive.String() && snap.Elapsed-snap.GoDelay < goShowTime:
		dst.DrawTextCentered(y, "GO!", core.ColorGreen)
	case snap.WinnerVisible:
		if w, ok := snap.WinnerSlot(); ok {
			dst.DrawTextCentered(y, fmt.Sprintf("Player %d wins!", int(w)+1), core.PlayerColor(w))
		} else {
			dst.DrawTextCentered(y, "No winner!", core.ColorGray)
		}
	}

	if snap.Done() {
		hint := "Round over"
		if local {
			hint = "Press R to play again, Q to quit"
		}
		dst.DrawTextCentered(y+1, hint, core.ColorDefault)
	}
}

// String renders the snapshot as plain text, for logs and tests.
func (s Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tick=%d phase=%s end=%.2f", s.Tick, s.Phase, s.EndTimer)
	if w, ok := s.WinnerSlot(); ok {
		fmt.Fprintf(&b, " winner=%s", w)
	}
	for _, ag := range s.Agents {
		fmt.Fprintf(&b, " [%s]", playerStatus(ag, 0))
	}
	return b.String()
}

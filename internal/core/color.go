package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for arena elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
	ColorSand
)

// playerColors is indexed by slot.
var playerColors = [MaxPlayers]Color{
	ColorRed,
	ColorGreen,
	ColorBlue,
	ColorYellow,
}

// PlayerColor returns the display color for a player slot.
func PlayerColor(id PlayerID) Color {
	if !id.Valid() {
		return ColorDefault
	}
	return playerColors[id]
}

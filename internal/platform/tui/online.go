package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/games/chicken"
	"github.com/vovakirdan/chicken-arcade/internal/multiplayer"
)

// onlineGameID is the menu entry and coordinator game id of online rounds.
const onlineGameID = "chicken-online"

// OnlineState represents the current state of the online lobby flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiners or start
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Joined, waiting for the host to start
	OnlineStateInMatch                          // Round started
)

// waitForEvent returns a command that delivers the next coordinator event.
func waitForEvent(events <-chan multiplayer.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		evt, ok := <-events
		if !ok {
			return nil
		}
		return evt
	}
}

// OnlineLobbyModel handles hosting and joining a lobby.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	events      <-chan multiplayer.SessionEvent

	lobbyCode string
	slot      core.PlayerID
	players   int

	joinCodeInput string
	lobbyError    string

	matchID multiplayer.MatchID
	humans  int

	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	events <-chan multiplayer.SessionEvent,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		sessionID:   sessionID,
		coordinator: coordinator,
		events:      events,
	}
}

// Init starts listening for coordinator events.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyUpdatedEvent:
		m.lobbyCode = msg.Code
		m.slot = msg.Slot
		m.players = msg.Players
		if !msg.IsHost {
			m.state = OnlineStateJoinWaiting
		}
	case multiplayer.LobbyErrorEvent:
		m.lobbyError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.slot = msg.Slot
		m.humans = msg.Humans
		m.state = OnlineStateInMatch
		// The match model takes over the event channel.
		return m, nil
	case multiplayer.MatchEndedEvent:
		if msg.Reason == multiplayer.MatchEndReasonHostLeft {
			m.lobbyError = "The host closed the lobby"
			m.state = OnlineStateChooseMode
		}
	case multiplayer.SnapshotEvent:
		// Left over from a previous round.
	default:
		return m, nil
	}
	return m, waitForEvent(m.events)
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	}
	return m, nil
}

// leave withdraws from the current lobby, if any.
func (m *OnlineLobbyModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	}
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.lobbyError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    onlineGameID,
		})
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.lobbyError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "S", "enter":
		m.coordinator.Send(multiplayer.StartLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
	case "esc", "b":
		m.leave()
		m.backToMenu = true
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
		return m, nil
	case "enter":
		if len(m.joinCodeInput) == 6 {
			m.lobbyError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Join codes are base32: A-Z and 2-7.
		if len(key) == 1 && len(m.joinCodeInput) < 6 {
			c := strings.ToUpper(key)[0]
			if (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7') {
				m.joinCodeInput += string(c)
			}
		}
	}
	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.state = OnlineStateChooseMode
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	switch m.state {
	case OnlineStateChooseMode:
		lines = []string{
			"ONLINE CHICKEN",
			"",
			"Up to four players; empty seats are taken by the computer.",
			"",
			"[H] Host a round",
			"[J] Join a round",
			"",
			"Esc: Back  |  Q: Quit",
		}
	case OnlineStateHostWaiting:
		lines = []string{
			"HOSTING",
			"",
			"Share this code:",
			"",
			fmt.Sprintf("[ %s ]", m.lobbyCode),
			"",
			fmt.Sprintf("Players: %d/%d  (you are %s)", max(m.players, 1), core.MaxPlayers, core.Player1),
			"",
			"S: Start  |  Esc: Cancel  |  Q: Quit",
		}
	case OnlineStateJoinEnterCode:
		code := m.joinCodeInput
		if len(code) < 6 {
			code += "_" + strings.Repeat(" ", 5-len(code))
		}
		lines = []string{
			"JOIN A ROUND",
			"",
			"Enter the code:",
			"",
			fmt.Sprintf("[ %s ]", code),
			"",
			"Enter: Join  |  Esc: Back",
		}
	case OnlineStateJoinWaiting:
		lines = []string{
			"IN LOBBY " + m.lobbyCode,
			"",
			fmt.Sprintf("You are %s, stop key: space", m.slot),
			fmt.Sprintf("Players: %d/%d", m.players, core.MaxPlayers),
			"",
			"Waiting for the host to start...",
			"",
			"Esc: Leave  |  Q: Quit",
		}
	case OnlineStateInMatch:
		lines = []string{"ROUND STARTING", "", fmt.Sprintf("You are %s", m.slot)}
	}
	if m.lobbyError != "" {
		lines = append(lines, "", "Error: "+m.lobbyError)
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID if a match was started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Slot returns the player slot of this session.
func (m OnlineLobbyModel) Slot() core.PlayerID {
	return m.slot
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// OnlineMatchModel draws server snapshots and forwards this player's stops.
type OnlineMatchModel struct {
	game        *chicken.Game
	screen      *core.Screen
	sessionID   multiplayer.SessionID
	matchID     multiplayer.MatchID
	slot        core.PlayerID
	coordinator *multiplayer.Coordinator
	events      <-chan multiplayer.SessionEvent
	bell        io.Writer

	last  chicken.Snapshot
	ended *multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineMatchModel creates the view of a started online round.
func NewOnlineMatchModel(
	sessionID multiplayer.SessionID,
	matchID multiplayer.MatchID,
	slot core.PlayerID,
	coordinator *multiplayer.Coordinator,
	events <-chan multiplayer.SessionEvent,
	cfg core.RuntimeConfig,
	bell io.Writer,
) OnlineMatchModel {
	game := chicken.NewMirror()
	game.Reset(cfg)
	return OnlineMatchModel{
		game:        game,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		sessionID:   sessionID,
		matchID:     matchID,
		slot:        slot,
		coordinator: coordinator,
		events:      events,
		bell:        bell,
		last:        chicken.Snapshot{Winner: -1},
	}
}

// Init starts listening for snapshots.
func (m OnlineMatchModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update handles messages.
func (m OnlineMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case multiplayer.SnapshotEvent:
		if msg.MatchID == m.matchID {
			if snap, ok := msg.Snapshot.(chicken.Snapshot); ok {
				m.ring(snap)
				m.game.ApplySnapshot(snap)
				m.last = snap
			}
		}
	case multiplayer.MatchEndedEvent:
		if msg.MatchID == m.matchID {
			m.ended = &msg
			return m, nil
		}
	default:
		return m, nil
	}
	return m, waitForEvent(m.events)
}

// ring sounds the bell on the same edges the local cue sink uses.
func (m OnlineMatchModel) ring(next chicken.Snapshot) {
	if m.bell == nil {
		return
	}
	started := next.Released && !m.last.Released
	settled := next.Phase != m.last.Phase && m.last.Phase == chicken.PhaseActive.String()
	announced := next.WinnerVisible && !m.last.WinnerVisible
	if started || settled || announced {
		_, _ = io.WriteString(m.bell, "\a")
	}
}

func (m OnlineMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ended != nil {
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		default:
			m.backToMenu = true
			return m, nil
		}
	}

	frame := core.NewInputFrame()
	if MapKeyToFrame(msg, &frame) {
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		m.quitting = true
		return m, tea.Quit
	}
	if frame.Has(core.ActionStop) {
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID:  m.matchID,
			Player:   m.slot,
			TickHint: m.last.Tick,
			Input:    frame,
		})
	}
	return m, nil
}

// View renders the last snapshot.
func (m OnlineMatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	if m.ended != nil {
		m.screen.DrawTextCentered(m.screen.Height()-2, endedText(*m.ended, m.slot), core.ColorWhite)
	}
	return RenderScreen(m.screen)
}

// endedText summarizes a finished online round for one player.
func endedText(e multiplayer.MatchEndedEvent, slot core.PlayerID) string {
	var result string
	switch {
	case e.Reason != multiplayer.MatchEndReasonCompleted:
		result = e.Reason.String()
	case !e.HasWinner:
		result = "No winner"
	case e.Winner == slot:
		result = fmt.Sprintf("You win! %d points", e.Scores[slot])
	default:
		result = fmt.Sprintf("%s wins", e.Winner)
	}
	return result + " - press any key for the menu"
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineMatchModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineMatchModel) IsQuitting() bool {
	return m.quitting
}

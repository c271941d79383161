package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/raidsim/internal/sim"
)

// eventTailLen is how many rendered event lines the view keeps.
const eventTailLen = 512

// moveStep is how far one key press moves the player, in global units.
const moveStep = sim.TileGlobal / 4

// WatchKeyMap defines the key bindings for the watch view.
type WatchKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Use   key.Binding
	Fire  key.Binding
	Knife key.Binding
	Gun   key.Binding
	Key   key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Use, k.Fire, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Use, k.Fire, k.Knife, k.Gun, k.Key, k.Quit},
	}
}

// DefaultWatchKeyMap returns default key bindings.
func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("w", "north"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("s", "south"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("a", "west"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("d", "east"),
		),
		Use: key.NewBinding(
			key.WithKeys(" ", "e"),
			key.WithHelp("space", "use"),
		),
		Fire: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fire"),
		),
		Knife: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "knife"),
		),
		Gun: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "pistol"),
		),
		Key: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grant gold key"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// WatchModel is the Bubble Tea model for a live simulation session.
// The model is the host: it owns the player's position and facing,
// queues intents from key presses, and feeds real frame time into the
// core.
type WatchModel struct {
	sim   *sim.Simulator
	theme Theme
	keys  WatchKeyMap
	help  help.Model

	px, py int
	facing sim.Direction

	events    []string
	lastFrame time.Time
	width     int
	height    int
	quitting  bool
	finished  string // Menu target once the session ends
}

// NewWatchModel creates a watch model around a prepared simulator.
func NewWatchModel(s *sim.Simulator) WatchModel {
	start := s.Level().Start
	return WatchModel{
		sim:    s,
		theme:  DefaultTheme(),
		keys:   DefaultWatchKeyMap(),
		help:   help.New(),
		px:     sim.TileCenter(start.X),
		py:     sim.TileCenter(start.Y),
		facing: sim.East,
	}
}

// Init starts the frame loop. The first frame sees a zero lastFrame
// and advances the core by nothing.
func (m WatchModel) Init() tea.Cmd {
	return frameCmd()
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		return m.handleFrame(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input into host moves and queued
// intents.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.move(sim.North)
	case key.Matches(msg, m.keys.Down):
		m.move(sim.South)
	case key.Matches(msg, m.keys.Left):
		m.move(sim.West)
	case key.Matches(msg, m.keys.Right):
		m.move(sim.East)

	case key.Matches(msg, m.keys.Use):
		m.use()

	case key.Matches(msg, m.keys.Fire):
		m.sim.QueueAction(sim.FireWeapon{Slot: 0})
		m.sim.QueueAction(sim.ReleaseTrigger{Slot: 0})

	case key.Matches(msg, m.keys.Knife):
		m.sim.QueueAction(sim.EquipWeapon{Slot: 0, Type: "knife"})
	case key.Matches(msg, m.keys.Gun):
		m.sim.QueueAction(sim.EquipWeapon{Slot: 0, Type: "pistol"})

	case key.Matches(msg, m.keys.Key):
		m.sim.GiveItem("gold", 1)
	}

	return m, nil
}

// move turns the player and advances them one step, letting the core
// clip the motion against walls, doors, and bodies.
func (m *WatchModel) move(dir sim.Direction) {
	m.facing = dir
	dx, dy := dir.Delta()
	m.px, m.py = m.sim.ResolveMove(m.px, m.py, dx*moveStep, dy*moveStep)
}

// use operates whatever the player faces: a door, a push-wall, or the
// elevator switch.
func (m *WatchModel) use() {
	tx := sim.TileOf(m.px)
	ty := sim.TileOf(m.py)
	dx, dy := m.facing.Delta()
	tx, ty = tx+dx, ty+dy

	lvl := m.sim.Level()
	if di := lvl.DoorAt(tx, ty); di >= 0 {
		m.sim.QueueAction(sim.OperateDoor{Door: di})
		return
	}
	if lvl.PushWallAt(tx, ty) >= 0 {
		m.sim.QueueAction(sim.ActivatePushWall{TileX: tx, TileY: ty, Dir: m.facing})
		return
	}
	if lvl.ElevatorAt(tx, ty) {
		m.sim.QueueAction(sim.ActivateElevator{TileX: tx, TileY: ty})
	}
}

// handleFrame feeds elapsed wall time into the core and collects the
// tick's events.
func (m WatchModel) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.lastFrame.IsZero() {
		m.lastFrame = now
	}
	dt := now.Sub(m.lastFrame)
	m.lastFrame = now

	for _, ev := range m.sim.Update(dt, m.px, m.py, dirAngle(m.facing)) {
		m.events = append(m.events, m.renderEvent(ev))
		if nav, ok := ev.(sim.MenuNavigate); ok {
			m.finished = nav.Target
		}
	}
	if len(m.events) > eventTailLen {
		m.events = m.events[len(m.events)-eventTailLen:]
	}

	if m.finished != "" {
		return m, tea.Quit
	}
	return m, frameCmd()
}

// dirAngle converts a facing direction to degrees.
func dirAngle(d sim.Direction) int {
	switch d {
	case sim.East:
		return 0
	case sim.North:
		return 90
	case sim.West:
		return 180
	default:
		return 270
	}
}

// renderEvent formats one event for the tail.
func (m *WatchModel) renderEvent(ev sim.Event) string {
	tic := m.sim.Tics()
	line := func(style lipgloss.Style, text string) string {
		return style.Render(fmt.Sprintf("%6d  %s", tic, text))
	}

	switch e := ev.(type) {
	case sim.SoundPlayed:
		return line(m.theme.EventSound, fmt.Sprintf("sound %q area=%d", e.Name, e.Area))
	case sim.ConfigError:
		return line(m.theme.EventError, "config error: "+e.Message)
	case sim.ActorSpawned:
		return line(m.theme.EventNormal, fmt.Sprintf("spawn #%d %s", e.ID, e.Type))
	case sim.ActorDespawned:
		return line(m.theme.EventNormal, fmt.Sprintf("despawn #%d", e.ID))
	case sim.ActorShapeChanged:
		return line(m.theme.EventNormal, fmt.Sprintf("actor #%d shape=%d", e.ID, e.Shape))
	case sim.DoorMoved:
		return line(m.theme.EventNormal, fmt.Sprintf("door %d pos=%d", e.Door, e.Position))
	case sim.PushWallMoved:
		return line(m.theme.EventNormal, fmt.Sprintf("pushwall %d at (%d,%d)", e.PushWall, sim.TileOf(e.X), sim.TileOf(e.Y)))
	case sim.WeaponFired:
		return line(m.theme.EventSound, fmt.Sprintf("fired %s (slot %d)", e.Type, e.Slot))
	case sim.PlayerStateChanged:
		return line(m.theme.EventNormal, fmt.Sprintf("player %s=%d", e.Field, e.Value))
	case sim.ScreenFlash:
		return line(m.theme.EventSound, "flash "+e.Color)
	case sim.MenuNavigate:
		return line(m.theme.EventError, "navigate -> "+e.Target)
	case sim.ActorMoved:
		return line(m.theme.EventNormal, fmt.Sprintf("actor #%d moved", e.ID))
	default:
		return line(m.theme.EventNormal, fmt.Sprintf("%T%+v", ev, ev))
	}
}

// View renders the map, the HUD, and the event tail side by side.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	left := m.renderMap()
	right := lipgloss.JoinVertical(lipgloss.Left, m.renderHUD(), m.renderTail())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	status := m.theme.StatusBar.Render(
		fmt.Sprintf("raidsim  level %s  facing %s", m.sim.Level().ID, m.facing))
	return lipgloss.JoinVertical(lipgloss.Left, body, status, m.help.View(m.keys))
}

// renderMap draws the top-down tile view.
func (m WatchModel) renderMap() string {
	lvl := m.sim.Level()
	ptx, pty := sim.TileOf(m.px), sim.TileOf(m.py)

	// Dynamic occupancy painted over the structural grid.
	actorAt := map[[2]int]rune{}
	for _, a := range m.sim.Actors() {
		ax, ay := a.Pos()
		cell := [2]int{sim.TileOf(ax), sim.TileOf(ay)}
		if a.Alive() {
			actorAt[cell] = 'A'
		} else if _, busy := actorAt[cell]; !busy {
			actorAt[cell] = 'x'
		}
	}

	var b strings.Builder
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			b.WriteString(m.renderCell(x, y, ptx, pty, actorAt))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m WatchModel) renderCell(x, y, ptx, pty int, actorAt map[[2]int]rune) string {
	lvl := m.sim.Level()

	if x == ptx && y == pty {
		return m.theme.Player.Render("P")
	}
	if r, ok := actorAt[[2]int{x, y}]; ok {
		if r == 'A' {
			return m.theme.Actor.Render("A")
		}
		return m.theme.Corpse.Render("x")
	}
	if di := lvl.DoorAt(x, y); di >= 0 {
		d := m.sim.Doors()[di]
		if d.Action() == sim.DoorOpen {
			return m.theme.DoorOpen.Render("/")
		}
		return m.theme.Door.Render("+")
	}
	for _, p := range m.sim.PushWalls() {
		px, py := p.Pos()
		if sim.TileOf(px) == x && sim.TileOf(py) == y {
			return m.theme.PushWall.Render("%")
		}
	}
	if lvl.ElevatorAt(x, y) {
		return m.theme.Elevator.Render("E")
	}
	if lvl.Tile(x, y).Solid {
		return m.theme.Wall.Render("#")
	}
	return m.theme.Floor.Render(".")
}

// renderHUD draws the player and weapon status block.
func (m WatchModel) renderHUD() string {
	p := m.sim.PlayerState()

	var b strings.Builder
	b.WriteString(m.theme.HUDTitle.Render("session"))
	b.WriteByte('\n')
	b.WriteString(fmt.Sprintf("%s %s\n",
		m.theme.HUDLabel.Render("tic"),
		m.theme.HUDValue.Render(fmt.Sprintf("%d", m.sim.Tics()))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		m.theme.HUDLabel.Render("health"),
		m.theme.HUDValue.Render(fmt.Sprintf("%d", p.Health))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		m.theme.HUDLabel.Render("bullets"),
		m.theme.HUDValue.Render(fmt.Sprintf("%d", p.Inventory["bullets"]))))
	for _, w := range m.sim.Weapons() {
		name := w.Type()
		if name == "" {
			name = "-"
		}
		b.WriteString(fmt.Sprintf("%s %s\n",
			m.theme.HUDLabel.Render(fmt.Sprintf("slot %d", w.Slot())),
			m.theme.HUDValue.Render(name)))
	}
	return b.String()
}

// renderTail draws the most recent events that fit next to the map.
func (m WatchModel) renderTail() string {
	rows := m.height - m.sim.Level().Height - 4
	if rows < 4 {
		rows = 8
	}
	start := len(m.events) - rows
	if start < 0 {
		start = 0
	}
	return strings.Join(m.events[start:], "\n")
}

// Finished returns the menu target the session ended with, or empty if
// the watcher quit manually.
func (m WatchModel) Finished() string {
	return m.finished
}

// RunWatch runs the watch view until the session ends or the user
// quits. It returns the menu target the core navigated to, if any.
func RunWatch(s *sim.Simulator) (string, error) {
	m := NewWatchModel(s)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return "", fmt.Errorf("tui: watch session failed: %w", err)
	}
	if w, ok := final.(WatchModel); ok {
		return w.Finished(), nil
	}
	return "", nil
}

// Package tui provides the Bubble Tea integration for watching and
// steering a simulation session in the terminal. It renders a top-down
// tile view next to the live event stream; the simulation core itself
// stays headless.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// framesPerSecond is the render rate. The simulation converts real
// frame time to tics itself, so the two rates are independent.
const framesPerSecond = 30

// FrameMsg is sent to trigger a render frame.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends frame messages at
// the render rate.
func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/framesPerSecond, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

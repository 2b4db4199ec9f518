// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the command channel drained by the frame loop
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Command is a user request for the frame loop to apply
type Command int

const (
	CmdVolumeUp Command = iota
	CmdVolumeDown
	CmdToggleMute
	CmdToggleDump
	CmdClearBuffer
	CmdQuit
)

func (c Command) String() string {
	switch c {
	case CmdVolumeUp:
		return "volume-up"
	case CmdVolumeDown:
		return "volume-down"
	case CmdToggleMute:
		return "toggle-mute"
	case CmdToggleDump:
		return "toggle-dump"
	case CmdClearBuffer:
		return "clear-buffer"
	case CmdQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// VolumeStep is the volume change per key press
const VolumeStep = 5

// Control carries commands from the TUI to the frame loop
type Control struct {
	Commands chan Command
}

// NewControl creates a new control handler
func NewControl() *Control {
	return &Control{
		Commands: make(chan Command, 10),
	}
}

// send queues a command, dropping it if the loop is not keeping up
func (c *Control) send(cmd Command) {
	if c == nil {
		return
	}
	select {
	case c.Commands <- cmd:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{
		volume: 100,
		ctrl:   ctrl,
	}
}

// Run creates the TUI program; the caller starts it with Run()
func Run(ctrl *Control) *tea.Program {
	return tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
}

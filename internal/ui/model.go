// ABOUTME: Bubbletea model for the sound stream TUI
// ABOUTME: Shows backend, volume and dump state and turns keys into commands
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	// Backend
	backend     string
	requested   string
	substituted bool
	session     string

	// Volume
	volume int
	muted  bool

	// Streams
	sampleRate int
	discTitle  string
	dumping    bool
	dumpDir    string

	// Stats
	buffered int
	dropped  uint64
	ticks    uint64

	ctrl *Control

	// Dimensions
	width  int
	height int
}

// StatusMsg is a snapshot of the stream state sent by the frame loop
type StatusMsg struct {
	Backend     string
	Requested   string
	Substituted bool
	Session     string
	Volume      int
	Muted       bool
	SampleRate  int
	DiscTitle   string
	Dumping     bool
	DumpDir     string
	Buffered    int
	Dropped     uint64
	Ticks       uint64
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderControls()
	s += m.renderStats()
	s += m.renderHelp()

	return s
}

func (m Model) renderHeader() string {
	output := m.backend
	if output == "" {
		output = "(not started)"
	}
	if m.substituted {
		output = fmt.Sprintf("%s (wanted %s)", output, m.requested)
	}

	disc := "none"
	if m.discTitle != "" {
		disc = m.discTitle
	}

	return fmt.Sprintf(`┌─ Sound Stream ───────────────────────────────────────┐
│ Output: %-44s │
│ Disc:   %-44s │
├──────────────────────────────────────────────────────┤
`, truncate(output, 44), truncate(disc, 44))
}

func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " 🔇"
	}

	dump := "off"
	if m.dumping {
		dump = "on → " + m.dumpDir
	}

	return fmt.Sprintf("│ Volume: [%s] %3d%%%s\n"+
		"│ Dump:   %s\n",
		renderBar(m.volume, 100, 10), m.volume, muteIcon,
		truncate(dump, 44))
}

func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Stats:  Frames: %d  Buffered: %d  Dropped: %d
│ Output: %dHz
`, m.ticks, m.buffered, m.dropped, m.sampleRate)
}

func (m Model) renderHelp() string {
	return `│ ↑/↓:Volume  m:Mute  d:Dump  c:Clear  q:Quit          │
└──────────────────────────────────────────────────────┘
`
}

// handleKey turns key presses into commands for the frame loop
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.ctrl.send(CmdQuit)
		return m, tea.Quit
	case "up", "+":
		m.ctrl.send(CmdVolumeUp)
	case "down", "-":
		m.ctrl.send(CmdVolumeDown)
	case "m":
		m.ctrl.send(CmdToggleMute)
	case "d":
		m.ctrl.send(CmdToggleDump)
	case "c":
		m.ctrl.send(CmdClearBuffer)
	}

	return m, nil
}

func (m *Model) applyStatus(msg StatusMsg) {
	m.backend = msg.Backend
	m.requested = msg.Requested
	m.substituted = msg.Substituted
	m.session = msg.Session
	m.volume = msg.Volume
	m.muted = msg.Muted
	m.sampleRate = msg.SampleRate
	m.discTitle = msg.DiscTitle
	m.dumping = msg.Dumping
	m.dumpDir = msg.DumpDir
	m.buffered = msg.Buffered
	m.dropped = msg.Dropped
	m.ticks = msg.Ticks
}

func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

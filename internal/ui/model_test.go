// ABOUTME: Tests for TUI model and command routing
// ABOUTME: Tests status updates, key handling and rendering
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)

	if model.volume != 100 {
		t.Errorf("expected default volume 100, got %d", model.volume)
	}
	if model.muted {
		t.Error("expected muted to be false initially")
	}
	if model.dumping {
		t.Error("expected dumping to be false initially")
	}
}

func TestKeysSendCommands(t *testing.T) {
	tests := []struct {
		key      string
		expected Command
	}{
		{"up", CmdVolumeUp},
		{"+", CmdVolumeUp},
		{"down", CmdVolumeDown},
		{"-", CmdVolumeDown},
		{"m", CmdToggleMute},
		{"d", CmdToggleDump},
		{"c", CmdClearBuffer},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ctrl := NewControl()
			model := NewModel(ctrl)

			_, cmd := model.Update(key(tt.key))
			if cmd != nil {
				t.Error("expected no tea command")
			}

			select {
			case got := <-ctrl.Commands:
				if got != tt.expected {
					t.Errorf("expected %s, got %s", tt.expected, got)
				}
			default:
				t.Error("expected a command to be queued")
			}
		})
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		ctrl := NewControl()
		model := NewModel(ctrl)

		_, cmd := model.Update(key(k))
		if cmd == nil {
			t.Fatalf("%s: expected a quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}

		select {
		case got := <-ctrl.Commands:
			if got != CmdQuit {
				t.Errorf("%s: expected quit, got %s", k, got)
			}
		default:
			t.Errorf("%s: expected a quit command to be queued", k)
		}
	}
}

func TestUnknownKeyIsIgnored(t *testing.T) {
	ctrl := NewControl()
	model := NewModel(ctrl)

	model.Update(key("x"))

	if len(ctrl.Commands) != 0 {
		t.Errorf("expected no commands, got %d", len(ctrl.Commands))
	}
}

func TestFullControlDropsCommands(t *testing.T) {
	ctrl := NewControl()
	model := NewModel(ctrl)

	for i := 0; i < cap(ctrl.Commands)+5; i++ {
		model.Update(key("up"))
	}

	if len(ctrl.Commands) != cap(ctrl.Commands) {
		t.Errorf("expected %d queued commands, got %d", cap(ctrl.Commands), len(ctrl.Commands))
	}
}

func TestNilControl(t *testing.T) {
	model := NewModel(nil)

	// Must not panic
	model.Update(key("m"))
	model.Update(key("q"))
}

func TestStatusMsg(t *testing.T) {
	model := NewModel(nil)

	updated, _ := model.Update(StatusMsg{
		Backend:     "No Audio Output",
		Requested:   "Oto",
		Substituted: true,
		Volume:      35,
		Muted:       true,
		Dumping:     true,
		DumpDir:     "dump/audio",
		Buffered:    480,
		Dropped:     3,
		Ticks:       60,
		SampleRate:  48000,
	})
	m := updated.(Model)

	if m.backend != "No Audio Output" || m.requested != "Oto" || !m.substituted {
		t.Errorf("expected backend fallback to be recorded, got %q/%q/%v", m.backend, m.requested, m.substituted)
	}
	if m.volume != 35 {
		t.Errorf("expected volume 35, got %d", m.volume)
	}
	if !m.muted {
		t.Error("expected muted")
	}
	if !m.dumping || m.dumpDir != "dump/audio" {
		t.Errorf("expected dumping to dump/audio, got %v %q", m.dumping, m.dumpDir)
	}
	if m.buffered != 480 || m.dropped != 3 || m.ticks != 60 {
		t.Errorf("unexpected stats %d/%d/%d", m.buffered, m.dropped, m.ticks)
	}

	// Unmute comes through as a full snapshot
	updated, _ = m.Update(StatusMsg{Volume: 35})
	if updated.(Model).muted {
		t.Error("expected unmuted after the next snapshot")
	}
}

func TestWindowSizeMsg(t *testing.T) {
	model := NewModel(nil)

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m := updated.(Model)

	if m.width != 80 || m.height != 24 {
		t.Errorf("expected 80x24, got %dx%d", m.width, m.height)
	}
}

func TestView(t *testing.T) {
	model := NewModel(nil)
	if model.View() != "Loading..." {
		t.Errorf("expected loading view before sizing, got %q", model.View())
	}

	model.width = 80
	model.applyStatus(StatusMsg{
		Backend:     "No Audio Output",
		Requested:   "Oto",
		Substituted: true,
		Volume:      50,
		Muted:       true,
		DiscTitle:   "track01",
	})

	view := model.View()
	for _, want := range []string{"No Audio Output (wanted Oto)", "track01", " 50%", "🔇", "Dump:   off", "q:Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value    int
		expected string
	}{
		{0, "░░░░░░░░░░"},
		{50, "█████░░░░░"},
		{100, "██████████"},
	}

	for _, tt := range tests {
		if got := renderBar(tt.value, 100, 10); got != tt.expected {
			t.Errorf("renderBar(%d): expected %q, got %q", tt.value, tt.expected, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	if truncate("short", 10) != "short" {
		t.Error("expected short strings to be unchanged")
	}
	if got := truncate("a very long string", 10); got != "a very ..." {
		t.Errorf("expected %q, got %q", "a very ...", got)
	}
}

func TestCommandString(t *testing.T) {
	if CmdToggleDump.String() != "toggle-dump" {
		t.Errorf("expected toggle-dump, got %s", CmdToggleDump.String())
	}
	if Command(99).String() != "unknown" {
		t.Errorf("expected unknown, got %s", Command(99).String())
	}
}

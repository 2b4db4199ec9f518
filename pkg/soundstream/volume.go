// ABOUTME: Volume and mute controls
// ABOUTME: Changes are stored in the config and sent to the active backend
package soundstream

import "github.com/Resonate-Protocol/soundstream/pkg/audio"

// IncreaseVolume unmutes and raises the volume by offset, capped at 100
func (m *Manager) IncreaseVolume(offset uint16) {
	m.setVolume(m.config.Volume() + int(offset))
}

// DecreaseVolume unmutes and lowers the volume by offset, floored at 0
func (m *Manager) DecreaseVolume(offset uint16) {
	m.setVolume(m.config.Volume() - int(offset))
}

func (m *Manager) setVolume(volume int) {
	m.config.SetMuted(false)
	m.config.SetVolume(audio.ClampVolume(volume))
	m.UpdateSoundStream()
}

// ToggleMute flips mute without touching the stored volume
func (m *Manager) ToggleMute() {
	m.config.SetMuted(!m.config.Muted())
	m.UpdateSoundStream()
}

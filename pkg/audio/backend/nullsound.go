// ABOUTME: Backend that discards audio
// ABOUTME: Always available and always starts; drains the mixer in real time
package backend

import (
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/mixer"
)

// maxDrain caps how much audio one Update consumes after a long stall
const maxDrain = 500 * time.Millisecond

// NullSound plays nothing. Update mixes and throws away as much audio as a
// real device would have consumed since the previous Update, so queued
// audio does not pile up.
type NullSound struct {
	mixer      *mixer.Mixer
	volume     int
	muted      bool
	running    bool
	lastUpdate time.Time
	now        func() time.Time
	buf        []int16
}

// NullSoundIsAvailable always reports true
func NullSoundIsAvailable() bool {
	return true
}

// NewNullSound creates a backend that discards audio
func NewNullSound() Backend {
	return newNullSound(time.Now)
}

func newNullSound(now func() time.Time) *NullSound {
	return &NullSound{
		mixer:  mixer.New(DefaultSampleRate),
		volume: audio.MaxVolume,
		now:    now,
	}
}

// Name implements Backend
func (n *NullSound) Name() string {
	return BackendNullSound
}

// Start implements Backend and never fails
func (n *NullSound) Start() bool {
	n.running = true
	n.lastUpdate = n.now()
	return true
}

// Stop implements Backend
func (n *NullSound) Stop() {
	n.running = false
}

// SetVolume implements Backend
func (n *NullSound) SetVolume(volume int) {
	n.volume = audio.ClampVolume(volume)
	n.mixer.SetVolume(n.volume)
}

// Clear implements Backend
func (n *NullSound) Clear(mute bool) {
	n.muted = mute
	n.mixer.Clear()
}

// Update implements Backend
func (n *NullSound) Update() {
	if !n.running {
		return
	}

	now := n.now()
	elapsed := now.Sub(n.lastUpdate)
	n.lastUpdate = now
	if elapsed <= 0 {
		return
	}
	if elapsed > maxDrain {
		elapsed = maxDrain
	}

	frames := int(elapsed * time.Duration(n.mixer.SampleRate()) / time.Second)
	if frames == 0 {
		return
	}
	if cap(n.buf) < frames*audio.Channels {
		n.buf = make([]int16, frames*audio.Channels)
	}
	n.mixer.Mix(n.buf[:frames*audio.Channels])
}

// Mixer implements Backend
func (n *NullSound) Mixer() *mixer.Mixer {
	return n.mixer
}

// Volume returns the last volume set
func (n *NullSound) Volume() int {
	return n.volume
}

// IsMuted returns the mute flag set by Clear
func (n *NullSound) IsMuted() bool {
	return n.muted
}

// IsRunning reports whether Start has been called without a matching Stop
func (n *NullSound) IsRunning() bool {
	return n.running
}

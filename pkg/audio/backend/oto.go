// ABOUTME: Oto-based audio backend
// ABOUTME: Persistent oto player pulling mixed audio from the mixer through io.Reader
package backend

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/mixer"
	"github.com/ebitengine/oto/v3"
)

// oto allows one context per process; it is created on first Start and
// suspended, not destroyed, on Stop
var (
	otoMu   sync.Mutex
	otoCtx  *oto.Context
	otoRate int
)

// otoBufferFrames is the player's internal buffer (about 40ms at 48kHz)
const otoBufferFrames = 2048

// Oto output implementation using oto library
type Oto struct {
	mu     sync.Mutex
	mixer  *mixer.Mixer
	player *oto.Player
	volume int
	muted  atomic.Bool
	ready  bool

	// Accessed only by the oto reader goroutine
	buf []int16
}

// OtoIsAvailable reports whether oto supports this platform
func OtoIsAvailable() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "darwin", "windows", "android", "ios", "js":
		return true
	default:
		return false
	}
}

// NewOto creates a new Oto backend
func NewOto() Backend {
	return &Oto{
		mixer:  mixer.New(DefaultSampleRate),
		volume: audio.MaxVolume,
	}
}

// sharedOtoContext returns the process-wide oto context, creating it on first use
func sharedOtoContext(sampleRate int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoRate != sampleRate {
			log.Printf("Warning: oto context already running at %dHz, ignoring requested %dHz", otoRate, sampleRate)
		}
		return otoCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: audio.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	otoCtx = ctx
	otoRate = sampleRate
	return ctx, nil
}

// Name implements Backend
func (o *Oto) Name() string {
	return BackendOto
}

// Start implements Backend
func (o *Oto) Start() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ready {
		return true
	}

	ctx, err := sharedOtoContext(o.mixer.SampleRate())
	if err != nil {
		log.Printf("Error: %v", err)
		return false
	}
	if err := ctx.Resume(); err != nil {
		log.Printf("Error: failed to resume oto context: %v", err)
		return false
	}

	o.player = ctx.NewPlayer(o)
	o.player.SetBufferSize(otoBufferFrames * audio.BytesPerFrame)
	o.player.Play()
	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels (oto)", o.mixer.SampleRate(), audio.Channels)
	return true
}

// Read feeds the oto player; it is called from oto's own goroutine
func (o *Oto) Read(p []byte) (int, error) {
	frames := len(p) / audio.BytesPerFrame
	n := frames * audio.Channels
	if n == 0 {
		return 0, nil
	}

	if o.muted.Load() {
		o.mixer.Discard(frames)
		for i := range p[:frames*audio.BytesPerFrame] {
			p[i] = 0
		}
		return frames * audio.BytesPerFrame, nil
	}

	if cap(o.buf) < n {
		o.buf = make([]int16, n)
	}
	o.mixer.Mix(o.buf[:n])
	audio.Int16ToBytes(o.buf[:n], p)
	return frames * audio.BytesPerFrame, nil
}

// Stop implements Backend
func (o *Oto) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready {
		return
	}

	if o.player != nil {
		o.player.Pause()
		if err := o.player.Close(); err != nil {
			log.Printf("Warning: oto player close error: %v", err)
		}
		o.player = nil
	}

	otoMu.Lock()
	if otoCtx != nil {
		if err := otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto context suspend error: %v", err)
		}
	}
	otoMu.Unlock()

	o.ready = false
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	o.mu.Lock()
	o.volume = audio.ClampVolume(volume)
	o.mu.Unlock()

	o.mixer.SetVolume(volume)
}

// Clear implements Backend
func (o *Oto) Clear(mute bool) {
	o.muted.Store(mute)
	o.mixer.Clear()
}

// Update implements Backend; playback is driven by the oto reader
func (o *Oto) Update() {}

// Mixer implements Backend
func (o *Oto) Mixer() *mixer.Mixer {
	return o.mixer
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	return o.muted.Load()
}

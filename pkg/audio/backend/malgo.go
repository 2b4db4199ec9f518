// ABOUTME: Malgo-based audio backend
// ABOUTME: Uses miniaudio via malgo; the device data callback pulls from the mixer
package backend

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/mixer"
	"github.com/gen2brain/malgo"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	mixer    *mixer.Mixer
	volume   int
	muted    atomic.Bool
	ready    bool

	// Accessed only by the device callback
	buf []int16
}

// MalgoIsAvailable checks that a miniaudio context can be created
func MalgoIsAvailable() bool {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return false
	}
	if err := ctx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	ctx.Free()
	return true
}

// NewMalgo creates a new Malgo backend
func NewMalgo() Backend {
	return &Malgo{
		mixer:  mixer.New(DefaultSampleRate),
		volume: audio.MaxVolume,
	}
}

// Name implements Backend
func (m *Malgo) Name() string {
	return BackendMalgo
}

// Start implements Backend
func (m *Malgo) Start() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ready {
		return true
	}
	if err := m.open(); err != nil {
		log.Printf("Error: %v", err)
		m.closeDevice()
		return false
	}

	m.ready = true
	log.Printf("Audio output initialized: %dHz, %d channels (malgo/S16)", m.mixer.SampleRate(), audio.Channels)
	return true
}

// open creates the context and device (must hold m.mu)
func (m *Malgo) open() error {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	m.malgoCtx = ctx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(audio.Channels)
	deviceConfig.SampleRate = uint32(m.mixer.SampleRate())
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.dataCallback(pOutputSample, frameCount)
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	m.device = device

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	return nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(pOutput []byte, frameCount uint32) {
	n := int(frameCount) * audio.Channels
	if len(pOutput) < n*2 {
		n = len(pOutput) / 2
	}

	if m.muted.Load() {
		m.mixer.Discard(n / audio.Channels)
		for i := range pOutput[:n*2] {
			pOutput[i] = 0
		}
		return
	}

	if cap(m.buf) < n {
		m.buf = make([]int16, n)
	}
	m.mixer.Mix(m.buf[:n])
	audio.Int16ToBytes(m.buf[:n], pOutput)
}

// Stop implements Backend
func (m *Malgo) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeDevice()
}

// closeDevice stops and uninitializes the device and context (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
	}

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	m.ready = false
}

// SetVolume sets the volume (0-100)
func (m *Malgo) SetVolume(volume int) {
	m.mu.Lock()
	m.volume = audio.ClampVolume(volume)
	m.mu.Unlock()

	m.mixer.SetVolume(volume)
}

// Clear implements Backend
func (m *Malgo) Clear(mute bool) {
	m.muted.Store(mute)
	m.mixer.Clear()
}

// Update implements Backend; playback is driven by the device callback
func (m *Malgo) Update() {}

// Mixer implements Backend
func (m *Malgo) Mixer() *mixer.Mixer {
	return m.mixer
}

// GetVolume returns current volume
func (m *Malgo) GetVolume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// IsMuted returns mute state
func (m *Malgo) IsMuted() bool {
	return m.muted.Load()
}

// ABOUTME: Two-stream mixer feeding an output backend
// ABOUTME: Resamples DSP and DTK input to the output rate, mixes on pull and logs input to WAV
package mixer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/resample"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/wavlog"
)

const (
	// DefaultDSPSampleRate is the rate of samples handed to PushSamples
	DefaultDSPSampleRate = 32000

	// DefaultStreamSampleRate is the rate of samples handed to PushStreamingSamples
	DefaultStreamSampleRate = 48000

	// bufferMs is how much output-rate audio each stream can queue
	bufferMs = 500
)

// Sentinel errors
var (
	ErrAlreadyLogging = errors.New("stream is already being logged")
)

// stream is one resampled input queue
type stream struct {
	name      string
	resampler *resample.Resampler
	fifo      *RingBuffer
	volume    int
	log       *wavlog.Writer
	scratch   []int16
}

func newStream(name string, inputRate, outputRate int) *stream {
	capacity := (outputRate * audio.Channels * bufferMs) / 1000
	return &stream{
		name:      name,
		resampler: resample.New(inputRate, outputRate, audio.Channels),
		fifo:      NewRingBuffer(capacity),
		volume:    audio.MaxVolume,
	}
}

// push resamples samples into the FIFO and returns how many output samples were dropped
func (s *stream) push(samples []int16) int {
	need := s.resampler.OutputSamplesNeeded(len(samples))
	if cap(s.scratch) < need {
		s.scratch = make([]int16, need)
	}
	out := s.scratch[:need]

	n := s.resampler.Resample(samples, out)
	written := s.fifo.Write(out[:n])
	return n - written
}

// Mixer combines the DSP stream (game audio) and the DTK stream (disc
// streaming audio) into one interleaved stereo output at a fixed rate.
// Producers push on the emulation goroutine; the backend pulls with Mix,
// usually from an audio callback goroutine.
type Mixer struct {
	mu         sync.Mutex
	outputRate int
	volume     int
	dsp        *stream
	dtk        *stream
	dropped    uint64
	mixBuf     []int16
}

// New creates a mixer producing output at outputRate
func New(outputRate int) *Mixer {
	return &Mixer{
		outputRate: outputRate,
		volume:     audio.MaxVolume,
		dsp:        newStream("DSP", DefaultDSPSampleRate, outputRate),
		dtk:        newStream("DTK", DefaultStreamSampleRate, outputRate),
	}
}

// SampleRate returns the output sample rate
func (m *Mixer) SampleRate() int {
	return m.outputRate
}

// PushSamples queues frames of interleaved DSP audio
func (m *Mixer) PushSamples(samples []int16, frames int) {
	m.push(m.dsp, samples, frames)
}

// PushStreamingSamples queues frames of interleaved DTK audio
func (m *Mixer) PushStreamingSamples(samples []int16, frames int) {
	m.push(m.dtk, samples, frames)
}

func (m *Mixer) push(s *stream, samples []int16, frames int) {
	n := frames * audio.Channels
	if n > len(samples) {
		n = len(samples)
	}
	if n <= 0 {
		return
	}
	samples = samples[:n]

	m.mu.Lock()
	defer m.mu.Unlock()

	if s.log != nil {
		if err := s.log.Write(samples, s.resampler.InputRate()); err != nil {
			log.Printf("Warning: %s audio log write failed, stopping log: %v", s.name, err)
			m.closeLog(s)
		}
	}

	if dropped := s.push(samples); dropped > 0 {
		m.dropped += uint64(dropped / audio.Channels)
	}
}

// SetDSPInputSampleRate changes the rate PushSamples input is recorded at
func (m *Mixer) SetDSPInputSampleRate(rate int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dsp.resampler.SetInputRate(rate)
}

// SetStreamInputSampleRate changes the rate PushStreamingSamples input is recorded at
func (m *Mixer) SetStreamInputSampleRate(rate int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dtk.resampler.SetInputRate(rate)
}

// SetStreamingVolume sets the DTK stream volume (0-100)
func (m *Mixer) SetStreamingVolume(volume int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dtk.volume = audio.ClampVolume(volume)
}

// SetVolume sets the master output volume (0-100)
func (m *Mixer) SetVolume(volume int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = audio.ClampVolume(volume)
}

// Volume returns the master output volume
func (m *Mixer) Volume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Mix fills out with mixed interleaved stereo samples. Underruns are
// zero-filled. Returns the number of frames that carried queued audio.
func (m *Mixer) Mix(out []int16) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(out) - len(out)%audio.Channels
	if n == 0 {
		return 0
	}
	if cap(m.mixBuf) < n {
		m.mixBuf = make([]int16, n)
	}
	buf := m.mixBuf[:n]

	dspRead := m.dsp.fifo.Read(out[:n])
	for i := dspRead; i < n; i++ {
		out[i] = 0
	}
	dtkRead := m.dtk.fifo.Read(buf)

	master := audio.VolumeMultiplier(m.volume)
	dtkGain := audio.VolumeMultiplier(m.dtk.volume)
	for i := 0; i < n; i++ {
		v := float64(out[i])
		if i < dtkRead {
			v += float64(buf[i]) * dtkGain
		}
		out[i] = audio.ClampInt16(int32(v * master))
	}

	got := dspRead
	if dtkRead > got {
		got = dtkRead
	}
	return got / audio.Channels
}

// Discard drops up to frames of queued output from both streams without
// mixing them, as a device consuming silence would
func (m *Mixer) Discard(frames int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dsp.fifo.Discard(frames * audio.Channels)
	m.dtk.fifo.Discard(frames * audio.Channels)
}

// Clear drops all queued audio and resets interpolation state
func (m *Mixer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range []*stream{m.dsp, m.dtk} {
		s.fifo.Reset()
		s.resampler.Reset()
	}
}

// Buffered returns the frames queued on the fuller stream
func (m *Mixer) Buffered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.dsp.fifo.Available()
	if d := m.dtk.fifo.Available(); d > n {
		n = d
	}
	return n / audio.Channels
}

// Dropped returns frames lost to FIFO overflow
func (m *Mixer) Dropped() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// StartLogDTKAudio starts mirroring DTK input to a WAV file at path
func (m *Mixer) StartLogDTKAudio(path string) error {
	return m.startLog(m.dtk, path)
}

// StartLogDSPAudio starts mirroring DSP input to a WAV file at path
func (m *Mixer) StartLogDSPAudio(path string) error {
	return m.startLog(m.dsp, path)
}

// StopLogDTKAudio finalizes the DTK log file
func (m *Mixer) StopLogDTKAudio() {
	m.stopLog(m.dtk)
}

// StopLogDSPAudio finalizes the DSP log file
func (m *Mixer) StopLogDSPAudio() {
	m.stopLog(m.dsp)
}

// IsLoggingDTKAudio reports whether the DTK log is open
func (m *Mixer) IsLoggingDTKAudio() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dtk.log != nil
}

// IsLoggingDSPAudio reports whether the DSP log is open
func (m *Mixer) IsLoggingDSPAudio() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dsp.log != nil
}

func (m *Mixer) startLog(s *stream, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.log != nil {
		return fmt.Errorf("%s: %w", s.name, ErrAlreadyLogging)
	}

	w, err := wavlog.Create(path, s.resampler.InputRate(), audio.Channels)
	if err != nil {
		return fmt.Errorf("failed to start %s audio log: %w", s.name, err)
	}
	s.log = w

	log.Printf("Starting %s audio logging to %s", s.name, path)
	return nil
}

func (m *Mixer) stopLog(s *stream) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.log == nil {
		log.Printf("Warning: %s audio logging has already been stopped", s.name)
		return
	}
	m.closeLog(s)
	log.Printf("Stopped %s audio logging", s.name)
}

// closeLog finalizes a stream's log (must hold m.mu)
func (m *Mixer) closeLog(s *stream) {
	if err := s.log.Close(); err != nil {
		log.Printf("Warning: %v", err)
	}
	s.log = nil
}

// ABOUTME: Sine tone generator
// ABOUTME: Stands in for emulated DSP output when no game audio is available
package source

import "math"

// DefaultToneFrequency is A4
const DefaultToneFrequency = 440.0

// ToneSource generates a stereo sine tone at half amplitude
type ToneSource struct {
	frequency  float64
	sampleRate int
	index      uint64
}

// NewToneSource creates a tone generator
func NewToneSource(frequency float64, sampleRate int) *ToneSource {
	return &ToneSource{
		frequency:  frequency,
		sampleRate: sampleRate,
	}
}

func (s *ToneSource) Read(samples []int16) (int, error) {
	frames := len(samples) / 2

	for i := 0; i < frames; i++ {
		t := float64(s.index+uint64(i)) / float64(s.sampleRate)
		v := int16(math.Sin(2*math.Pi*s.frequency*t) * 32767.0 * 0.5)

		samples[i*2] = v
		samples[i*2+1] = v
	}
	s.index += uint64(frames)

	return frames * 2, nil
}

// SetSampleRate changes the generated rate without a phase jump
func (s *ToneSource) SetSampleRate(rate int) {
	if rate <= 0 || rate == s.sampleRate {
		return
	}
	s.index = uint64(float64(s.index) * float64(rate) / float64(s.sampleRate))
	s.sampleRate = rate
}

func (s *ToneSource) SampleRate() int { return s.sampleRate }
func (s *ToneSource) Title() string   { return "Test Tone" }
func (s *ToneSource) Close() error    { return nil }

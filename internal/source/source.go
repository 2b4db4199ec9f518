// ABOUTME: Audio source abstraction for disc streams and generated tones
// ABOUTME: Opens MP3, FLAC and WAV files as looping interleaved stereo int16 sources
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Source provides interleaved stereo 16-bit PCM
type Source interface {
	// Read fills samples with interleaved stereo audio. Returns the number
	// of samples written. File sources loop at end of stream.
	Read(samples []int16) (int, error)
	// SampleRate returns the sample rate of the audio
	SampleRate() int
	// Title returns a display name
	Title() string
	// Close closes the source
	Close() error
}

// Open creates a source for an audio file, picked by extension
func Open(path string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return NewMP3Source(path)
	case ".flac":
		return NewFLACSource(path)
	case ".wav":
		return NewWAVSource(path)
	default:
		return nil, fmt.Errorf("%w: %s (supported: .mp3, .flac, .wav)", ErrUnsupportedFormat, ext)
	}
}

func titleFromPath(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// toInt16 scales a sample of the given bit depth to 16 bits
func toInt16(sample int32, bitDepth int) int16 {
	switch {
	case bitDepth > 16:
		return int16(sample >> (bitDepth - 16))
	case bitDepth < 16:
		return int16(sample << (16 - bitDepth))
	default:
		return int16(sample)
	}
}

// ABOUTME: WAV disc stream source
// ABOUTME: Decodes PCM with go-audio/wav, converts to stereo 16-bit and loops
package source

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVSource reads from a PCM WAV file
type WAVSource struct {
	file       *os.File
	decoder    *wav.Decoder
	sampleRate int
	channels   int
	bitDepth   int
	title      string
	buf        *audio.IntBuffer
}

// NewWAVSource creates a new WAV audio source
func NewWAVSource(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		f.Close()
		return nil, errors.New("input is not a valid WAV audio file")
	}

	if decoder.BitDepth != 16 && decoder.BitDepth != 24 && decoder.BitDepth != 32 {
		f.Close()
		return nil, fmt.Errorf("unsupported bit depth: %d", decoder.BitDepth)
	}
	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		f.Close()
		return nil, fmt.Errorf("unsupported number of channels: %d", decoder.NumChans)
	}

	s := &WAVSource{
		file:       f,
		decoder:    decoder,
		sampleRate: int(decoder.SampleRate),
		channels:   int(decoder.NumChans),
		bitDepth:   int(decoder.BitDepth),
		title:      titleFromPath(path),
	}

	log.Printf("Loaded WAV: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		s.title, s.sampleRate, s.channels, s.bitDepth)

	return s, nil
}

func (s *WAVSource) Read(samples []int16) (int, error) {
	written := 0
	looped := false

	for written+1 < len(samples) {
		frames := (len(samples) - written) / 2
		want := frames * s.channels
		if s.buf == nil || cap(s.buf.Data) < want {
			s.buf = &audio.IntBuffer{
				Data:   make([]int, want),
				Format: &audio.Format{SampleRate: s.sampleRate, NumChannels: s.channels},
			}
		}
		s.buf.Data = s.buf.Data[:want]

		n, err := s.decoder.PCMBuffer(s.buf)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return written, fmt.Errorf("failed to read WAV data: %w", err)
		}

		if n == 0 {
			if looped {
				return written, io.EOF
			}
			if err := s.rewind(); err != nil {
				return written, err
			}
			looped = true
			continue
		}
		looped = false

		for i := 0; i+s.channels <= n; i += s.channels {
			left := toInt16(int32(s.buf.Data[i]), s.bitDepth)
			right := left
			if s.channels == 2 {
				right = toInt16(int32(s.buf.Data[i+1]), s.bitDepth)
			}
			samples[written] = left
			samples[written+1] = right
			written += 2
		}
	}

	return written, nil
}

func (s *WAVSource) rewind() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to start: %w", err)
	}
	s.decoder = wav.NewDecoder(s.file)
	s.decoder.ReadInfo()
	if !s.decoder.IsValidFile() {
		return errors.New("input is not a valid WAV audio file")
	}
	return nil
}

func (s *WAVSource) SampleRate() int { return s.sampleRate }
func (s *WAVSource) Title() string   { return s.title }
func (s *WAVSource) Close() error    { return s.file.Close() }

// ABOUTME: FLAC disc stream source
// ABOUTME: Decodes frames with mewkiz/flac, downmixes to stereo 16-bit and loops
package source

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mewkiz/flac"
)

// FLACSource reads from a FLAC file
type FLACSource struct {
	file       *os.File
	stream     *flac.Stream
	sampleRate int
	channels   int
	bitDepth   int
	title      string
	pending    []int16 // decoded samples not yet returned
}

// NewFLACSource creates a new FLAC audio source
func NewFLACSource(path string) (*FLACSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}

	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	s := &FLACSource{
		file:       f,
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
		title:      titleFromPath(path),
	}

	log.Printf("Loaded FLAC: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		s.title, s.sampleRate, s.channels, s.bitDepth)

	return s, nil
}

func (s *FLACSource) Read(samples []int16) (int, error) {
	written := 0
	looped := false

	for written < len(samples) {
		if len(s.pending) == 0 {
			if err := s.decodeFrame(); err != nil {
				if err != io.EOF || looped {
					return written, err
				}
				if err := s.rewind(); err != nil {
					return written, err
				}
				looped = true
				continue
			}
			looped = false
		}

		n := copy(samples[written:], s.pending)
		s.pending = s.pending[n:]
		written += n
	}

	return written, nil
}

// decodeFrame appends the next frame as interleaved stereo to pending
func (s *FLACSource) decodeFrame() error {
	frame, err := s.stream.ParseNext()
	if err != nil {
		return err
	}

	right := 1
	if s.channels == 1 {
		right = 0
	}

	blockSize := int(frame.BlockSize)
	out := make([]int16, 0, blockSize*2)
	for i := 0; i < blockSize; i++ {
		out = append(out,
			toInt16(frame.Subframes[0].Samples[i], s.bitDepth),
			toInt16(frame.Subframes[right].Samples[i], s.bitDepth))
	}
	s.pending = out
	return nil
}

func (s *FLACSource) rewind() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to start: %w", err)
	}
	stream, err := flac.New(s.file)
	if err != nil {
		return fmt.Errorf("failed to create new stream: %w", err)
	}
	s.stream = stream
	return nil
}

func (s *FLACSource) SampleRate() int { return s.sampleRate }
func (s *FLACSource) Title() string   { return s.title }
func (s *FLACSource) Close() error    { return s.file.Close() }

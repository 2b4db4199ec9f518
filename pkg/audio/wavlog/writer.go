// ABOUTME: WAV file writer used to dump raw stream audio to disk
// ABOUTME: Wraps go-audio/wav and splits the file when the stream's sample rate changes
package wavlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth = 16

	// WAVE_FORMAT_PCM
	pcmFormat = 1
)

// ErrClosed is returned when writing to a closed Writer
var ErrClosed = errors.New("wav writer closed")

// Writer appends interleaved 16-bit samples to a WAV file. The header is
// finalized on Close; a file that is never closed has a zero-length header.
type Writer struct {
	mu         sync.Mutex
	basePath   string
	path       string
	file       *os.File
	enc        *wav.Encoder
	sampleRate int
	channels   int
	segment    int
	frames     int64
	segFrames  int64 // frames in the current file
	buf        audio.IntBuffer
}

// Create opens path for writing, creating parent directories as needed
func Create(path string, sampleRate, channels int) (*Writer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	w := &Writer{
		basePath: path,
		channels: channels,
	}
	if err := w.open(path, sampleRate); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) open(path string, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	w.file = f
	w.path = path
	w.sampleRate = sampleRate
	w.enc = wav.NewEncoder(f, sampleRate, bitDepth, w.channels, pcmFormat)
	w.buf.Format = &audio.Format{SampleRate: sampleRate, NumChannels: w.channels}
	w.buf.SourceBitDepth = bitDepth
	w.segFrames = 0
	return nil
}

// Write appends samples recorded at sampleRate. When sampleRate differs
// from the current file's rate the current file is finalized and the
// samples go to a new numbered file next to it.
func (w *Writer) Write(samples []int16, sampleRate int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc == nil {
		return ErrClosed
	}
	if len(samples) == 0 {
		return nil
	}

	if sampleRate > 0 && sampleRate != w.sampleRate {
		if err := w.finalize(); err != nil {
			return err
		}
		w.segment++
		if err := w.open(segmentPath(w.basePath, w.segment), sampleRate); err != nil {
			return err
		}
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = int(s)
	}

	if err := w.enc.Write(&w.buf); err != nil {
		return fmt.Errorf("failed to write to WAV encoder: %w", err)
	}
	w.frames += int64(len(samples) / w.channels)
	w.segFrames += int64(len(samples) / w.channels)
	return nil
}

// Close finalizes the WAV header and closes the file. Safe to call twice.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finalize()
}

// finalize closes the encoder and file (must hold w.mu)
func (w *Writer) finalize() error {
	if w.enc == nil {
		return nil
	}

	// The encoder writes its header on the first Write; an empty file
	// still needs one to be a valid WAV
	var encErr error
	if w.segFrames == 0 {
		encErr = w.enc.Write(&audio.IntBuffer{Format: w.buf.Format, SourceBitDepth: bitDepth})
	}
	if closeErr := w.enc.Close(); encErr == nil {
		encErr = closeErr
	}
	fileErr := w.file.Close()
	w.enc = nil
	w.file = nil

	if encErr != nil {
		return fmt.Errorf("failed to finalize WAV file %s: %w", w.path, encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("failed to close WAV file %s: %w", w.path, fileErr)
	}
	return nil
}

// Path returns the file currently being written
func (w *Writer) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Frames returns the number of frames written across all segments
func (w *Writer) Frames() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// segmentPath turns dspdump.wav into dspdump_1.wav for segment 1
func segmentPath(base string, segment int) string {
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), segment, ext)
}

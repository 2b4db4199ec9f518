// ABOUTME: Tests for the WAV dump writer
// ABOUTME: Writes files into a temp dir and decodes them back with go-audio/wav
package wavlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func decodeFile(t *testing.T, path string) (*wav.Decoder, []int) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatalf("%s is not a valid WAV file", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return d, buf.Data
}

func TestCreateMakesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audio", "dspdump.wav")

	w, err := Create(path, 32000, 2)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
	if w.Path() != path {
		t.Errorf("expected path %s, got %s", path, w.Path())
	}
}

func TestCreateRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()

	if _, err := Create(filepath.Join(dir, "a.wav"), 0, 2); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := Create(filepath.Join(dir, "b.wav"), 48000, 0); err == nil {
		t.Error("expected error for zero channels")
	}
}

func TestWriteAndDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtkdump.wav")

	w, err := Create(path, 48000, 2)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	samples := []int16{100, -100, 200, -200, 32767, -32768}
	if err := w.Write(samples, 48000); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Write(samples[:2], 48000); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if w.Frames() != 4 {
		t.Errorf("expected 4 frames, got %d", w.Frames())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	d, data := decodeFile(t, path)
	if d.SampleRate != 48000 {
		t.Errorf("expected sample rate 48000, got %d", d.SampleRate)
	}
	if d.NumChans != 2 {
		t.Errorf("expected 2 channels, got %d", d.NumChans)
	}
	if len(data) != 8 {
		t.Fatalf("expected 8 samples, got %d", len(data))
	}
	if data[4] != 32767 || data[5] != -32768 {
		t.Errorf("expected extremes preserved, got %d/%d", data[4], data[5])
	}
}

func TestWriteSplitsOnRateChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dspdump.wav")

	w, err := Create(path, 32000, 2)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.Write([]int16{1, 1}, 32000); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Write([]int16{2, 2, 3, 3}, 48000); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	split := filepath.Join(dir, "dspdump_1.wav")
	if w.Path() != split {
		t.Errorf("expected current path %s, got %s", split, w.Path())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	d, data := decodeFile(t, path)
	if d.SampleRate != 32000 || len(data) != 2 {
		t.Errorf("first segment: expected 32000Hz/2 samples, got %dHz/%d", d.SampleRate, len(data))
	}
	d, data = decodeFile(t, split)
	if d.SampleRate != 48000 || len(data) != 4 {
		t.Errorf("second segment: expected 48000Hz/4 samples, got %dHz/%d", d.SampleRate, len(data))
	}
}

func TestWriteAfterClose(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "x.wav"), 48000, 2)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Second close is a no-op
	if err := w.Close(); err != nil {
		t.Errorf("expected second Close to succeed, got %v", err)
	}
	if err := w.Write([]int16{1, 2}, 48000); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestCloseWithoutWritesIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtkdump.wav")

	w, err := Create(path, 48000, 2)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatal("expected an empty dump to be a valid WAV file")
	}
	if d.SampleRate != 48000 || d.NumChans != 2 || d.BitDepth != 16 {
		t.Errorf("expected 48000Hz/2ch/16-bit, got %dHz/%dch/%d-bit", d.SampleRate, d.NumChans, d.BitDepth)
	}
	if w.Frames() != 0 {
		t.Errorf("expected 0 frames, got %d", w.Frames())
	}
}

func TestSegmentPath(t *testing.T) {
	got := segmentPath("/tmp/dump/dtkdump.wav", 2)
	if got != "/tmp/dump/dtkdump_2.wav" {
		t.Errorf("expected /tmp/dump/dtkdump_2.wav, got %s", got)
	}
}

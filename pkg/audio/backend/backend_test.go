// ABOUTME: Tests for the backend registry and the null backend
// ABOUTME: Device backends are only checked for interface conformance
package backend

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBackendsImplementInterface(t *testing.T) {
	var _ Backend = (*NullSound)(nil)
	var _ Backend = (*Oto)(nil)
	var _ Backend = (*Malgo)(nil)
}

func TestNewBackendsHaveMixers(t *testing.T) {
	for _, b := range []Backend{NewNullSound(), NewOto(), NewMalgo()} {
		if b.Mixer() == nil {
			t.Errorf("%s: expected a mixer", b.Name())
		}
		if b.Mixer().SampleRate() != DefaultSampleRate {
			t.Errorf("%s: expected mixer rate %d, got %d", b.Name(), DefaultSampleRate, b.Mixer().SampleRate())
		}
	}
}

func TestDeviceSetVolumeIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	for _, b := range []Backend{NewOto(), NewMalgo()} {
		for v := 0; v <= 100; v += 10 {
			b.SetVolume(v)
		}
		if b.Mixer().Volume() != 100 {
			t.Errorf("%s: expected mixer volume 100, got %d", b.Name(), b.Mixer().Volume())
		}
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output from volume changes, got %q", buf.String())
	}
}

func TestDefaultRegistryOrder(t *testing.T) {
	names := DefaultRegistry().Names()
	expected := []string{BackendNullSound, BackendOto, BackendMalgo}

	if len(names) != len(expected) {
		t.Fatalf("expected %d backends, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("index %d: expected %q, got %q", i, expected[i], names[i])
		}
	}
}

func TestRegistryOpen(t *testing.T) {
	built := 0
	reg := NewRegistry(
		Entry{Name: "ok", IsAvailable: func() bool { return true }, New: func() Backend {
			built++
			return NewNullSound()
		}},
		Entry{Name: "broken", IsAvailable: func() bool { return false }, New: func() Backend {
			built++
			return NewNullSound()
		}},
	)

	if _, err := reg.Open("ok"); err != nil {
		t.Errorf("expected ok backend to open, got %v", err)
	}

	_, err := reg.Open("broken")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}

	_, err = reg.Open("missing")
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}

	if built != 1 {
		t.Errorf("expected only the available backend to be constructed, got %d", built)
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := DefaultRegistry()

	e, ok := reg.Lookup(BackendNullSound)
	if !ok {
		t.Fatal("expected null backend to be registered")
	}
	if !e.IsAvailable() {
		t.Error("expected null backend to be available")
	}
	if _, ok := reg.Lookup("DirectSound"); ok {
		t.Error("expected lookup of unknown backend to fail")
	}
}

func TestNullSoundStartStop(t *testing.T) {
	n := NewNullSound().(*NullSound)

	if n.Name() != BackendNullSound {
		t.Errorf("expected name %q, got %q", BackendNullSound, n.Name())
	}
	if !n.Start() {
		t.Fatal("expected null backend to start")
	}
	if !n.IsRunning() {
		t.Error("expected running after Start")
	}
	n.Stop()
	if n.IsRunning() {
		t.Error("expected stopped after Stop")
	}
	// Starting again still succeeds
	if !n.Start() {
		t.Error("expected restart to succeed")
	}
}

func TestNullSoundSetVolume(t *testing.T) {
	n := NewNullSound().(*NullSound)

	n.SetVolume(40)
	if n.Volume() != 40 {
		t.Errorf("expected volume 40, got %d", n.Volume())
	}
	if n.Mixer().Volume() != 40 {
		t.Errorf("expected mixer volume 40, got %d", n.Mixer().Volume())
	}

	n.SetVolume(140)
	if n.Volume() != 100 {
		t.Errorf("expected volume clamped to 100, got %d", n.Volume())
	}
}

func TestNullSoundClear(t *testing.T) {
	n := NewNullSound().(*NullSound)
	n.Mixer().PushSamples(make([]int16, 640), 320)

	n.Clear(true)
	if !n.IsMuted() {
		t.Error("expected muted after Clear(true)")
	}
	if n.Mixer().Buffered() != 0 {
		t.Errorf("expected mixer emptied, got %d frames", n.Mixer().Buffered())
	}

	n.Clear(false)
	if n.IsMuted() {
		t.Error("expected unmuted after Clear(false)")
	}
}

func TestNullSoundUpdateDrainsRealTime(t *testing.T) {
	clock := time.Unix(0, 0)
	n := newNullSound(func() time.Time { return clock })
	m := n.Mixer()
	m.SetDSPInputSampleRate(DefaultSampleRate)

	// Not running: Update is a no-op
	m.PushSamples(make([]int16, 2*4800), 4800)
	n.Update()
	if m.Buffered() != 4800 {
		t.Fatalf("expected 4800 frames before start, got %d", m.Buffered())
	}

	n.Start()
	clock = clock.Add(50 * time.Millisecond) // 2400 frames at 48kHz
	n.Update()
	if m.Buffered() != 2400 {
		t.Errorf("expected 2400 frames left, got %d", m.Buffered())
	}

	// No time passed
	n.Update()
	if m.Buffered() != 2400 {
		t.Errorf("expected 2400 frames left, got %d", m.Buffered())
	}

	// Long stall drains at most maxDrain
	clock = clock.Add(10 * time.Second)
	n.Update()
	if m.Buffered() != 0 {
		t.Errorf("expected mixer drained, got %d", m.Buffered())
	}
}

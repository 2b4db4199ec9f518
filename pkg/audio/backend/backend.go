// ABOUTME: Sound backend interface and the static registry of compiled-in variants
// ABOUTME: Maps backend names to availability checks and constructors
package backend

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/soundstream/pkg/audio/mixer"
)

// Names of the compiled-in backends
const (
	BackendNullSound = "No Audio Output"
	BackendOto       = "Oto"
	BackendMalgo     = "Miniaudio"
)

// DefaultSampleRate is the output rate every backend's mixer runs at
const DefaultSampleRate = 48000

// Sentinel errors
var (
	ErrUnknownBackend     = errors.New("unknown audio backend")
	ErrBackendUnavailable = errors.New("audio backend unavailable")
)

// Backend is an audio output the stream manager drives
type Backend interface {
	// Name returns the registry name of the variant
	Name() string

	// Start opens the output device. Returns false if the device could not be started.
	Start() bool

	// Stop closes the output device
	Stop()

	// SetVolume sets the output volume (0-100)
	SetVolume(volume int)

	// Clear drops queued audio; while mute is set the backend plays silence
	Clear(mute bool)

	// Update is called once per pushed buffer for time-based processing
	Update()

	// Mixer returns the mixer the backend plays from, or nil
	Mixer() *mixer.Mixer
}

// Entry describes one backend variant
type Entry struct {
	Name        string
	IsAvailable func() bool
	New         func() Backend
}

// Registry is an ordered, fixed set of backend variants
type Registry struct {
	entries []Entry
}

// NewRegistry creates a registry with entries in the given order
func NewRegistry(entries ...Entry) *Registry {
	return &Registry{entries: append([]Entry(nil), entries...)}
}

// DefaultRegistry returns the backends compiled into this build
func DefaultRegistry() *Registry {
	return NewRegistry(
		Entry{Name: BackendNullSound, IsAvailable: NullSoundIsAvailable, New: NewNullSound},
		Entry{Name: BackendOto, IsAvailable: OtoIsAvailable, New: NewOto},
		Entry{Name: BackendMalgo, IsAvailable: MalgoIsAvailable, New: NewMalgo},
	)
}

// Names returns the backend names in registry order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	return names
}

// Lookup finds a backend entry by name
func (r *Registry) Lookup(name string) (Entry, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Open constructs the named backend if it is compiled in and passes its
// availability check. The backend is not started.
func (r *Registry) Open(name string) (Backend, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	if e.IsAvailable != nil && !e.IsAvailable() {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, name)
	}
	return e.New(), nil
}

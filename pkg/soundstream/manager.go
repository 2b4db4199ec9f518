// ABOUTME: Stream manager owning the single active audio backend
// ABOUTME: Handles backend selection with null fallback, start/stop and volume propagation
package soundstream

import (
	"log"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/backend"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/mixer"
	"github.com/google/uuid"
)

// Config is the persisted audio configuration the manager reads and writes
type Config interface {
	Backend() string
	DumpAudio() bool
	DumpDir() string
	Volume() int
	SetVolume(volume int)
	Muted() bool
	SetMuted(muted bool)
}

// State is the lifecycle state of a Manager
type State int

const (
	StateUninitialized State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// InitReport describes what Init ended up running
type InitReport struct {
	Requested   string
	Active      string
	Substituted bool // requested backend unknown or unavailable
	StartFailed bool // requested backend failed to start
}

// Manager owns exactly one backend between Init and Shutdown.
//
// A Manager is driven by a single goroutine (the emulation loop). It does
// no locking of its own; hosts route volume and mute requests from other
// goroutines onto the owning one.
type Manager struct {
	config   Config
	registry *backend.Registry
	logger   *log.Logger

	backend    backend.Backend
	state      State
	session    string
	dumping    bool
	dumpFailed bool
}

// Option configures a Manager
type Option func(*Manager)

// WithRegistry sets the backends the manager can select from
func WithRegistry(r *backend.Registry) Option {
	return func(m *Manager) {
		m.registry = r
	}
}

// WithLogger sets the logger used for lifecycle and fallback messages
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a manager; no backend is active until Init
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		config:   cfg,
		registry: backend.DefaultRegistry(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init selects, configures and starts the configured backend. It never
// fails: an unknown, unavailable or unstartable backend is replaced by
// the null backend. Calling Init on a running manager restarts it.
func (m *Manager) Init() InitReport {
	if m.backend != nil {
		m.Shutdown()
	}

	m.state = StateStarting
	m.session = uuid.NewString()

	requested := m.config.Backend()
	report := InitReport{Requested: requested}

	m.logger.Printf("Initializing sound stream %s (backend %s)", m.session, requested)

	b, substituted := m.SelectBackend(requested)
	report.Substituted = substituted
	m.backend = b

	m.UpdateSoundStream()

	if !m.backend.Start() {
		m.logger.Printf("Error: could not start backend %s, using %s instead",
			m.backend.Name(), backend.BackendNullSound)
		report.StartFailed = true

		m.backend.Stop()
		m.backend = backend.NewNullSound()
		m.UpdateSoundStream()
		m.backend.Start()
	}

	m.dumpFailed = false
	if m.config.DumpAudio() && !m.dumping {
		m.StartAudioDump()
	}

	m.state = StateRunning
	report.Active = m.backend.Name()
	return report
}

// SelectBackend constructs the requested backend, substituting the null
// backend when it is not compiled in or fails its availability check.
// The returned backend is not started.
func (m *Manager) SelectBackend(requested string) (backend.Backend, bool) {
	b, err := m.registry.Open(requested)
	if err == nil {
		return b, false
	}

	m.logger.Printf("Warning: could not initialize backend %s, using %s instead: %v",
		requested, backend.BackendNullSound, err)
	return backend.NewNullSound(), true
}

// Shutdown stops the backend, closes any open dump and releases the
// backend. Safe to call at any time, including repeatedly.
func (m *Manager) Shutdown() {
	if m.backend == nil {
		return
	}

	m.state = StateStopping
	m.logger.Printf("Shutting down sound stream %s", m.session)

	m.backend.Stop()
	if m.dumping {
		m.StopAudioDump()
	}
	m.backend = nil

	m.state = StateUninitialized
	m.logger.Printf("Done shutting down sound stream %s", m.session)
}

// UpdateSoundStream sends the effective volume to the active backend
func (m *Manager) UpdateSoundStream() {
	if m.backend == nil {
		return
	}
	m.backend.SetVolume(m.EffectiveVolume())
}

// EffectiveVolume is the stored volume, or 0 while muted
func (m *Manager) EffectiveVolume() int {
	return audio.EffectiveVolume(m.config.Volume(), m.config.Muted())
}

// ClearAudioBuffer drops queued audio on the active backend; while mute
// is set the backend plays silence
func (m *Manager) ClearAudioBuffer(mute bool) {
	if m.backend == nil {
		return
	}
	m.backend.Clear(mute)
}

// GetAvailableBackendNames lists the compiled-in backends in order
func (m *Manager) GetAvailableBackendNames() []string {
	return m.registry.Names()
}

// State returns the lifecycle state
func (m *Manager) State() State {
	return m.state
}

// ActiveBackend returns the name of the active backend, or "" when none
func (m *Manager) ActiveBackend() string {
	if m.backend == nil {
		return ""
	}
	return m.backend.Name()
}

// Session returns the id of the current or most recent Init
func (m *Manager) Session() string {
	return m.session
}

// Mixer returns the active backend's mixer, or nil
func (m *Manager) Mixer() *mixer.Mixer {
	if m.backend == nil {
		return nil
	}
	return m.backend.Mixer()
}

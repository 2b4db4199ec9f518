// ABOUTME: Persisted audio settings backed by viper
// ABOUTME: YAML file + SOUNDSTREAM_* env overrides, live reload and save-back
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/backend"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	keyBackend       = "audio.backend"
	keyVolume        = "audio.volume"
	keyMuted         = "audio.muted"
	keyDumpAudio     = "audio.dump_audio"
	keyDumpDir       = "audio.dump_dir"
	keyDSPSampleRate = "audio.dsp_sample_rate"

	envPrefix = "SOUNDSTREAM"

	// DefaultFileName is looked up in the search paths when no file is given
	DefaultFileName = "soundstream"
)

// Defaults
const (
	DefaultBackend       = backend.BackendOto
	DefaultVolume        = 100
	DefaultDumpDir       = "dump/audio"
	DefaultDSPSampleRate = 32000
)

// Settings holds the audio configuration shared between the frame loop,
// the UI and the file watcher. All accessors are safe for concurrent use.
type Settings struct {
	mu sync.RWMutex
	v  *viper.Viper

	backend       string
	volume        int
	muted         bool
	dumpAudio     bool
	dumpDir       string
	dspSampleRate int

	// seen is viper's view at the last reload; nil before the first one
	seen    *values
	watcher *fsnotify.Watcher
}

// values is one snapshot of every setting
type values struct {
	backend       string
	volume        int
	muted         bool
	dumpAudio     bool
	dumpDir       string
	dspSampleRate int
}

// Default returns settings with built-in defaults and no backing file
func Default() *Settings {
	s := &Settings{v: newViper()}
	s.reload()
	return s
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyBackend, DefaultBackend)
	v.SetDefault(keyVolume, DefaultVolume)
	v.SetDefault(keyMuted, false)
	v.SetDefault(keyDumpAudio, false)
	v.SetDefault(keyDumpDir, DefaultDumpDir)
	v.SetDefault(keyDSPSampleRate, DefaultDSPSampleRate)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads settings from path. An empty path searches the working
// directory and the user config directory for soundstream.yaml; a missing
// file is not an error and leaves defaults in place.
func Load(path string) (*Settings, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "soundstream"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Printf("No config file found, using defaults")
	}

	s := &Settings{v: v}
	s.reload()
	return s, nil
}

// reload copies viper's view into the cached fields. After the first
// call only keys whose value changed since the previous reload are
// copied, so an edit to one key in the file does not undo in-session
// changes to the others.
func (s *Settings) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply()
}

// apply must hold s.mu
func (s *Settings) apply() {
	next := values{
		backend:       s.v.GetString(keyBackend),
		volume:        audio.ClampVolume(s.v.GetInt(keyVolume)),
		muted:         s.v.GetBool(keyMuted),
		dumpAudio:     s.v.GetBool(keyDumpAudio),
		dumpDir:       s.v.GetString(keyDumpDir),
		dspSampleRate: s.v.GetInt(keyDSPSampleRate),
	}
	if next.dspSampleRate <= 0 {
		next.dspSampleRate = DefaultDSPSampleRate
	}

	prev := s.seen
	if prev == nil || next.backend != prev.backend {
		s.backend = next.backend
	}
	if prev == nil || next.volume != prev.volume {
		s.volume = next.volume
	}
	if prev == nil || next.muted != prev.muted {
		s.muted = next.muted
	}
	if prev == nil || next.dumpAudio != prev.dumpAudio {
		s.dumpAudio = next.dumpAudio
	}
	if prev == nil || next.dumpDir != prev.dumpDir {
		s.dumpDir = next.dumpDir
	}
	if prev == nil || next.dspSampleRate != prev.dspSampleRate {
		s.dspSampleRate = next.dspSampleRate
	}
	s.seen = &next
}

// readFile re-reads the backing file and applies what changed
func (s *Settings) readFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	s.apply()
	return nil
}

// Watch reloads settings whenever the backing file changes. onChange, if
// non-nil, runs after each reload on the watcher goroutine. Call
// StopWatching to release the watcher.
func (s *Settings) Watch(onChange func()) error {
	file := s.v.ConfigFileUsed()
	if file == "" {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	// Editors often replace the file, so watch its directory
	if err := w.Add(filepath.Dir(file)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}

	s.mu.Lock()
	old := s.watcher
	s.watcher = w
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	go s.watch(w, filepath.Base(file), onChange)
	return nil
}

func (s *Settings) watch(w *fsnotify.Watcher, name string, onChange func()) {
	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(e.Name) != name || (!e.Has(fsnotify.Write) && !e.Has(fsnotify.Create)) {
				continue
			}
			log.Printf("Config file changed: %s", e.Name)
			if err := s.readFile(); err != nil {
				log.Printf("Warning: config reload failed: %v", err)
				continue
			}
			if onChange != nil {
				onChange()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: config watcher error: %v", err)
		}
	}
}

// StopWatching stops a previous Watch
func (s *Settings) StopWatching() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
}

// Save writes the current settings back to the file they were loaded from,
// or to path when no file was used. The file is written under the same
// lock a reload takes.
func (s *Settings) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.v.ConfigFileUsed()
	if target == "" {
		target = path
	}
	if target == "" {
		return errors.New("no config file to save to")
	}

	// A separate viper keeps these values out of the shared instance's
	// override layer, which would otherwise mask later file edits
	out := viper.New()
	if err := out.MergeConfigMap(s.v.AllSettings()); err != nil {
		return fmt.Errorf("failed to copy settings: %w", err)
	}
	out.Set(keyBackend, s.backend)
	out.Set(keyVolume, s.volume)
	out.Set(keyMuted, s.muted)
	out.Set(keyDumpAudio, s.dumpAudio)
	out.Set(keyDumpDir, s.dumpDir)
	out.Set(keyDSPSampleRate, s.dspSampleRate)

	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := out.WriteConfigAs(target); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FileUsed returns the config file path, empty when running on defaults
func (s *Settings) FileUsed() string {
	return s.v.ConfigFileUsed()
}

// Backend returns the requested backend name
func (s *Settings) Backend() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend
}

// SetBackend sets the requested backend name
func (s *Settings) SetBackend(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = name
}

// Volume returns the stored volume (0-100)
func (s *Settings) Volume() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// SetVolume stores the volume, clamped to 0-100
func (s *Settings) SetVolume(volume int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = audio.ClampVolume(volume)
}

// Muted returns the stored mute flag
func (s *Settings) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted
}

// SetMuted stores the mute flag
func (s *Settings) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

// DumpAudio reports whether audio dumping is requested
func (s *Settings) DumpAudio() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dumpAudio
}

// SetDumpAudio requests or cancels audio dumping
func (s *Settings) SetDumpAudio(dump bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dumpAudio = dump
}

// DumpDir returns the directory dump files are written to
func (s *Settings) DumpDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dumpDir
}

// SetDumpDir sets the directory dump files are written to
func (s *Settings) SetDumpDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dumpDir = dir
}

// DSPSampleRate returns the rate the host produces DSP samples at
func (s *Settings) DSPSampleRate() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dspSampleRate
}

// SetDSPSampleRate sets the DSP rate; non-positive rates are ignored
func (s *Settings) SetDSPSampleRate(rate int) {
	if rate <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dspSampleRate = rate
}

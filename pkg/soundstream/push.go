// ABOUTME: Per-frame sample delivery and audio dump gating
// ABOUTME: Keeps the mixer's WAV logs in step with the dump setting on every push
package soundstream

import (
	"os"
	"path/filepath"
)

// Dump file names created under the configured dump directory
const (
	DTKDumpFile = "dtkdump.wav"
	DSPDumpFile = "dspdump.wav"
)

// Push delivers one tick of interleaved stereo DSP audio. count is in
// frames and is clamped to what samples holds. The backend is ticked
// even when there is nothing to forward.
func (m *Manager) Push(samples []int16, count int) {
	if m.backend == nil {
		return
	}

	m.reconcileDump()

	if mx := m.backend.Mixer(); mx != nil && len(samples) > 0 {
		if limit := len(samples) / 2; count > limit {
			count = limit
		}
		mx.PushSamples(samples, count)
	}

	m.backend.Update()
}

// PushStreaming delivers interleaved stereo disc streaming (DTK) audio
func (m *Manager) PushStreaming(samples []int16, count int) {
	mx := m.Mixer()
	if mx == nil || len(samples) == 0 {
		return
	}
	if limit := len(samples) / 2; count > limit {
		count = limit
	}
	mx.PushStreamingSamples(samples, count)
}

func (m *Manager) reconcileDump() {
	want := m.config.DumpAudio()
	if !want {
		m.dumpFailed = false
	}

	// The mixer closes a log on its own when a write or a segment open
	// fails; treat that as a failed dump so a half-open pair never lingers
	if m.dumping {
		if mx := m.Mixer(); mx == nil || !mx.IsLoggingDTKAudio() || !mx.IsLoggingDSPAudio() {
			if mx != nil {
				if mx.IsLoggingDTKAudio() {
					mx.StopLogDTKAudio()
				}
				if mx.IsLoggingDSPAudio() {
					mx.StopLogDSPAudio()
				}
			}
			m.dumping = false
			m.dumpFailed = want
			m.logger.Printf("Error: audio dump stopped after a log failure")
		}
	}

	switch {
	case want && !m.dumping && !m.dumpFailed:
		m.StartAudioDump()
	case !want && m.dumping:
		m.StopAudioDump()
	}
}

// StartAudioDump opens WAV logs for both mixer streams under the dump
// directory. On failure nothing stays open and dumping remains off; the
// next push retries only after the dump setting is turned off and on.
func (m *Manager) StartAudioDump() {
	mx := m.Mixer()
	if mx == nil {
		m.logger.Printf("Warning: cannot start audio dump, backend has no mixer")
		m.dumpFailed = true
		return
	}

	dir := m.config.DumpDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Printf("Error: failed to create audio dump directory %s: %v", dir, err)
		m.dumpFailed = true
		return
	}

	if err := mx.StartLogDTKAudio(filepath.Join(dir, DTKDumpFile)); err != nil {
		m.logger.Printf("Error: failed to start audio dump: %v", err)
		m.dumpFailed = true
		return
	}
	if err := mx.StartLogDSPAudio(filepath.Join(dir, DSPDumpFile)); err != nil {
		m.logger.Printf("Error: failed to start audio dump: %v", err)
		mx.StopLogDTKAudio()
		m.dumpFailed = true
		return
	}

	m.dumping = true
	m.dumpFailed = false
	m.logger.Printf("Started audio dump in %s", dir)
}

// StopAudioDump closes both WAV logs
func (m *Manager) StopAudioDump() {
	if mx := m.Mixer(); mx != nil {
		if mx.IsLoggingDTKAudio() {
			mx.StopLogDTKAudio()
		}
		if mx.IsLoggingDSPAudio() {
			mx.StopLogDSPAudio()
		}
	}
	m.dumping = false
	m.logger.Printf("Stopped audio dump")
}

// IsDumping reports whether both mixer streams are being logged
func (m *Manager) IsDumping() bool {
	return m.dumping
}

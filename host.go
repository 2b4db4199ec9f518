// ABOUTME: Frame loop state for the soundstream host
// ABOUTME: Generates per-frame audio, applies TUI commands and config reloads on the loop goroutine
package main

import (
	"log"

	"github.com/Resonate-Protocol/soundstream/internal/config"
	"github.com/Resonate-Protocol/soundstream/internal/source"
	"github.com/Resonate-Protocol/soundstream/internal/ui"
	"github.com/Resonate-Protocol/soundstream/pkg/soundstream"
)

// host owns the manager; every method runs on the frame loop goroutine
type host struct {
	settings *config.Settings
	manager  *soundstream.Manager
	tone     *source.ToneSource
	disc     source.Source

	report  soundstream.InitReport
	backend string
	ticks   uint64

	dspBuf  []int16
	discBuf []int16
}

// start initializes the manager and points the mixer at the source rates
func (h *host) start() {
	h.tone.SetSampleRate(h.settings.DSPSampleRate())
	h.report = h.manager.Init()
	h.backend = h.settings.Backend()
	h.configureMixer()
}

func (h *host) configureMixer() {
	mx := h.manager.Mixer()
	if mx == nil {
		return
	}
	mx.SetDSPInputSampleRate(h.tone.SampleRate())
	if h.disc != nil {
		mx.SetStreamInputSampleRate(h.disc.SampleRate())
	}
}

// framesFor returns how many frames at rate belong to the current tick,
// spreading the remainder so a second holds exactly rate frames
func (h *host) framesFor(rate int) int {
	n := h.ticks % frameRate
	return int((n+1)*uint64(rate)/frameRate - n*uint64(rate)/frameRate)
}

// frame runs one emulated frame
func (h *host) frame() {
	frames := h.framesFor(h.tone.SampleRate())
	h.dspBuf = grow(h.dspBuf, frames*2)
	n, _ := h.tone.Read(h.dspBuf)
	h.manager.Push(h.dspBuf[:n], n/2)

	if h.disc != nil {
		frames := h.framesFor(h.disc.SampleRate())
		h.discBuf = grow(h.discBuf, frames*2)
		n, err := h.disc.Read(h.discBuf)
		if err != nil {
			log.Printf("Warning: disc stream stopped: %v", err)
			h.disc.Close()
			h.disc = nil
		} else {
			h.manager.PushStreaming(h.discBuf[:n], n/2)
		}
	}

	h.ticks++
}

func grow(buf []int16, n int) []int16 {
	if cap(buf) < n {
		return make([]int16, n)
	}
	return buf[:n]
}

// apply performs a TUI command
func (h *host) apply(cmd ui.Command) {
	switch cmd {
	case ui.CmdVolumeUp:
		h.manager.IncreaseVolume(ui.VolumeStep)
	case ui.CmdVolumeDown:
		h.manager.DecreaseVolume(ui.VolumeStep)
	case ui.CmdToggleMute:
		h.manager.ToggleMute()
	case ui.CmdToggleDump:
		h.settings.SetDumpAudio(!h.settings.DumpAudio())
	case ui.CmdClearBuffer:
		h.manager.ClearAudioBuffer(false)
	}
}

// reload applies settings changed on disk. A new backend name restarts
// the stream; the dump flag is picked up by the next Push.
func (h *host) reload() {
	if h.settings.Backend() != h.backend {
		log.Printf("Backend changed to %s, restarting sound stream", h.settings.Backend())
		h.start()
		return
	}

	h.tone.SetSampleRate(h.settings.DSPSampleRate())
	h.configureMixer()
	h.manager.UpdateSoundStream()
}

// status snapshots the stream for the TUI
func (h *host) status() ui.StatusMsg {
	msg := ui.StatusMsg{
		Backend:     h.manager.ActiveBackend(),
		Requested:   h.report.Requested,
		Substituted: h.report.Substituted || h.report.StartFailed,
		Session:     h.manager.Session(),
		Volume:      h.settings.Volume(),
		Muted:       h.settings.Muted(),
		Dumping:     h.manager.IsDumping(),
		DumpDir:     h.settings.DumpDir(),
		Ticks:       h.ticks,
	}
	if h.disc != nil {
		msg.DiscTitle = h.disc.Title()
	}
	if mx := h.manager.Mixer(); mx != nil {
		msg.SampleRate = mx.SampleRate()
		msg.Buffered = mx.Buffered()
		msg.Dropped = mx.Dropped()
	}
	return msg
}

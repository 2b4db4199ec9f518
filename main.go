// ABOUTME: Entry point for the soundstream host
// ABOUTME: Runs an emulated 60Hz frame loop feeding the stream manager, with an optional TUI
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/soundstream/internal/config"
	"github.com/Resonate-Protocol/soundstream/internal/source"
	"github.com/Resonate-Protocol/soundstream/internal/ui"
	"github.com/Resonate-Protocol/soundstream/internal/version"
	"github.com/Resonate-Protocol/soundstream/pkg/soundstream"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	frameRate = 60

	// statusEvery is how many frames pass between TUI refreshes
	statusEvery = 6
)

var (
	configPath  = flag.String("config", "", "Config file path (default: ./soundstream.yaml or the user config dir)")
	backendName = flag.String("backend", "", "Override the configured output backend")
	discPath    = flag.String("disc", "", "Audio file (.mp3, .flac, .wav) streamed on the disc channel")
	toneFreq    = flag.Float64("tone", source.DefaultToneFrequency, "Frequency of the game audio test tone in Hz")
	dump        = flag.Bool("dump", false, "Dump game and disc audio to WAV files")
	logFile     = flag.String("log-file", "soundstream.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *backendName != "" {
		settings.SetBackend(*backendName)
	}
	if *dump {
		settings.SetDumpAudio(true)
	}

	reloaded := make(chan struct{}, 1)
	if err := settings.Watch(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}); err != nil {
		log.Printf("Warning: config changes will not be picked up: %v", err)
	}

	h := &host{
		settings: settings,
		manager:  soundstream.NewManager(settings),
		tone:     source.NewToneSource(*toneFreq, settings.DSPSampleRate()),
	}

	if *discPath != "" {
		disc, err := source.Open(*discPath)
		if err != nil {
			log.Printf("Warning: disc stream disabled: %v", err)
		} else {
			h.disc = disc
			defer disc.Close()
		}
	}

	h.start()

	var (
		tuiProg *tea.Program
		ctrl    *ui.Control
		tuiDone chan struct{}
	)
	if useTUI {
		ctrl = ui.NewControl()
		tuiProg = ui.Run(ctrl)
		tuiDone = make(chan struct{})
		go func() {
			defer close(tuiDone)
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("Error: TUI stopped: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var commands chan ui.Command
	if ctrl != nil {
		commands = ctrl.Commands
	}

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ticker.C:
			h.frame()
			if tuiProg != nil && h.ticks%statusEvery == 0 {
				tuiProg.Send(h.status())
			}

		case cmd := <-commands:
			if cmd == ui.CmdQuit {
				log.Printf("Received quit signal from TUI")
				break loop
			}
			h.apply(cmd)

		case <-reloaded:
			h.reload()

		case <-sigChan:
			log.Printf("Shutdown signal received")
			break loop
		}
	}

	h.manager.Shutdown()
	settings.StopWatching()

	if tuiProg != nil {
		tuiProg.Quit()
		<-tuiDone
	}

	target := *configPath
	if target == "" {
		target = config.DefaultFileName + ".yaml"
	}
	if err := settings.Save(filepath.Clean(target)); err != nil {
		log.Printf("Warning: could not save settings: %v", err)
	}

	log.Printf("Stopped")
}

// ABOUTME: Lists the compiled-in audio backends and whether each can run here
// ABOUTME: Optionally plays a short test tone through one backend via the stream manager
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Resonate-Protocol/soundstream/internal/config"
	"github.com/Resonate-Protocol/soundstream/internal/source"
	"github.com/Resonate-Protocol/soundstream/internal/version"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/backend"
	"github.com/Resonate-Protocol/soundstream/pkg/soundstream"
)

var (
	play     = flag.String("play", "", "Play a test tone through this backend")
	duration = flag.Duration("duration", 2*time.Second, "How long to play the test tone")
	volume   = flag.Int("volume", 50, "Volume for the test tone (0-100)")
)

func main() {
	flag.Parse()

	fmt.Printf("%s %s\n\n", version.Product, version.Version)

	reg := backend.DefaultRegistry()
	for _, name := range reg.Names() {
		entry, _ := reg.Lookup(name)
		status := "unavailable"
		if entry.IsAvailable == nil || entry.IsAvailable() {
			status = "available"
		}
		fmt.Printf("  %-20s %s\n", name, status)
	}

	if *play == "" {
		return
	}

	settings := config.Default()
	settings.SetBackend(*play)
	settings.SetVolume(*volume)

	m := soundstream.NewManager(settings, soundstream.WithRegistry(reg))
	report := m.Init()
	defer m.Shutdown()

	if report.Substituted || report.StartFailed {
		log.Printf("Warning: %s could not be used, playing through %s", report.Requested, report.Active)
	}
	fmt.Printf("\nPlaying %v of %.0fHz through %s\n", *duration, source.DefaultToneFrequency, report.Active)

	rate := settings.DSPSampleRate()
	m.Mixer().SetDSPInputSampleRate(rate)
	tone := source.NewToneSource(source.DefaultToneFrequency, rate)

	const tick = 10 * time.Millisecond
	buf := make([]int16, rate*2*int(tick)/int(time.Second))

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	deadline := time.After(*duration)

	for {
		select {
		case <-ticker.C:
			n, _ := tone.Read(buf)
			m.Push(buf[:n], n/2)
		case <-deadline:
			return
		}
	}
}

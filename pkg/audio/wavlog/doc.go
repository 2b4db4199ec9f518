// ABOUTME: WAV dump package
// ABOUTME: Writes raw 16-bit PCM streams to WAV files for diagnostics
// Package wavlog writes interleaved 16-bit PCM to WAV files.
//
// It is used by the mixer to mirror its input streams to disk:
//
//	w, err := wavlog.Create("dump/audio/dspdump.wav", 32000, 2)
//	err = w.Write(samples, 32000)
//	err = w.Close()
package wavlog

// ABOUTME: Audio mixer package
// ABOUTME: Mixes the DSP and DTK streams for a single output backend
// Package mixer combines the two input streams of the emulated console
// into the stereo output a backend plays.
//
// DSP audio arrives through PushSamples and disc streaming (DTK) audio
// through PushStreamingSamples. Both are resampled to the output rate on
// push and queued; the backend pulls mixed output with Mix. Either input
// can be mirrored to a WAV file:
//
//	m := mixer.New(48000)
//	err := m.StartLogDSPAudio("dump/audio/dspdump.wav")
//	m.PushSamples(samples, len(samples)/2)
//	n := m.Mix(out)
//	m.StopLogDSPAudio()
package mixer

// ABOUTME: Audio backend package
// ABOUTME: Provides the Backend interface, the registry and the compiled-in variants
// Package backend provides the audio outputs a stream manager can drive.
//
// Every variant owns a mixer and plays whatever the mixer produces:
//   - NullSound: discards audio, always available, never fails to start
//   - Oto: cross-platform output through ebitengine/oto
//   - Malgo: miniaudio output through gen2brain/malgo
//
// Example:
//
//	reg := backend.DefaultRegistry()
//	b, err := reg.Open(backend.BackendOto)
//	if err != nil {
//	    b = backend.NewNullSound()
//	}
//	b.SetVolume(80)
//	ok := b.Start()
package backend

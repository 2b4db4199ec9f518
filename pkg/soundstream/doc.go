// ABOUTME: Package soundstream manages the active audio output for an emulation session
// ABOUTME: See Manager for the lifecycle, volume and dump operations

// Package soundstream owns the single audio output backend of a running
// session. A host calls Init once, Push on every emulated frame, the
// volume controls whenever the user asks, and Shutdown at the end.
//
// Backend problems never reach the host: an unknown or unavailable
// backend, or one that fails to start, is replaced by the null backend
// and the session continues silently.
//
// Example:
//
//	settings := config.Default()
//	m := soundstream.NewManager(settings)
//	m.Init()
//	defer m.Shutdown()
//
//	for range ticker.C {
//		m.Push(samples, frames)
//	}
package soundstream

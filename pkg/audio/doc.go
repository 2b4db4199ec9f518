// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the volume range and int16 sample conversions
// Package audio provides the fundamental audio types shared by the mixer,
// the output backends and the dump writer.
//
// All streams are interleaved stereo 16-bit PCM. Volumes are integers in
// [MinVolume, MaxVolume]; a muted stream plays at volume 0:
//
//	level := audio.EffectiveVolume(cfg.Volume(), cfg.Muted())
//	gain := audio.VolumeMultiplier(level)
package audio

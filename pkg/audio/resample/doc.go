// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts 16-bit streams between sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling, and keeps state between
// chunks so a stream can be fed in arbitrary pieces.
//
// Example:
//
//	r := resample.New(32000, 48000, 2)
//	out := make([]int16, r.OutputSamplesNeeded(len(in)))
//	n := r.Resample(in, out)
package resample

// ABOUTME: Linear resampler for converting 16-bit stream sample rates
// ABOUTME: Carries the last input frame across chunks so pushed buffers join without gaps
package resample

// Resampler performs linear interpolation to convert between sample rates.
// Input is consumed chunk by chunk; the final frame of each chunk is kept
// and used as the left neighbour of the next chunk's first frame.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
	lastSample []int16 // one sample per channel
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
		lastSample: make([]int16, channels),
	}
}

// InputRate returns the configured input sample rate
func (r *Resampler) InputRate() int {
	return r.inputRate
}

// OutputRate returns the configured output sample rate
func (r *Resampler) OutputRate() int {
	return r.outputRate
}

// SetInputRate changes the input rate and restarts interpolation
func (r *Resampler) SetInputRate(inputRate int) {
	if inputRate <= 0 || inputRate == r.inputRate {
		return
	}
	r.inputRate = inputRate
	r.ratio = float64(inputRate) / float64(r.outputRate)
	r.Reset()
}

// Resample converts interleaved input samples to the output rate.
// Returns the number of samples written to output. Interpolation stops
// when either input is exhausted or output is full; unconsumed input is
// dropped, so size output with OutputSamplesNeeded.
func (r *Resampler) Resample(input []int16, output []int16) int {
	inputFrames := len(input) / r.channels
	if inputFrames == 0 {
		return 0
	}
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		// Frame i sits between virtual frames i (previous chunk tail for i == 0)
		// and i+1 (input[i])
		idx := int(r.position)
		if idx >= inputFrames {
			break
		}

		frac := r.position - float64(idx)

		for ch := 0; ch < r.channels; ch++ {
			var left int16
			if idx == 0 {
				left = r.lastSample[ch]
			} else {
				left = input[(idx-1)*r.channels+ch]
			}
			right := input[idx*r.channels+ch]

			interpolated := float64(left)*(1.0-frac) + float64(right)*frac
			output[outIdx*r.channels+ch] = int16(interpolated)
		}

		outIdx++
		r.position += r.ratio
	}

	// Rebase so the last input frame becomes virtual frame 0 of the next chunk
	r.position -= float64(inputFrames)
	if r.position < 0 {
		r.position = 0
	}
	copy(r.lastSample, input[(inputFrames-1)*r.channels:inputFrames*r.channels])

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
	for i := range r.lastSample {
		r.lastSample[i] = 0
	}
}

// OutputSamplesNeeded returns an upper bound on the output samples
// produced from inputSamples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames)/r.ratio) + 2
	return outputFrames * r.channels
}

// InputSamplesNeeded calculates how many input samples are needed to produce output samples
func (r *Resampler) InputSamplesNeeded(outputSamples int) int {
	outputFrames := outputSamples / r.channels
	inputFrames := int(float64(outputFrames) * r.ratio)
	return inputFrames * r.channels
}

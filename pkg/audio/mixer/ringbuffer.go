// ABOUTME: Circular sample buffer backing each mixer stream
// ABOUTME: Fixed capacity FIFO of interleaved int16 samples
package mixer

// RingBuffer is a fixed-capacity FIFO of int16 samples.
// It does no locking; the Mixer serializes access.
type RingBuffer struct {
	buffer   []int16
	readPos  int
	writePos int
	size     int
	count    int // Number of samples currently in buffer
}

// NewRingBuffer creates a ring buffer with given capacity (in samples)
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		buffer: make([]int16, capacity),
		size:   capacity,
	}
}

// Write adds samples to the ring buffer and returns how many fit
func (rb *RingBuffer) Write(samples []int16) int {
	written := 0
	for i := 0; i < len(samples) && rb.count < rb.size; i++ {
		rb.buffer[rb.writePos] = samples[i]
		rb.writePos = (rb.writePos + 1) % rb.size
		rb.count++
		written++
	}
	return written
}

// Read moves up to len(samples) samples out of the buffer.
// The tail of samples past the returned count is left untouched.
func (rb *RingBuffer) Read(samples []int16) int {
	read := 0
	for i := 0; i < len(samples) && rb.count > 0; i++ {
		samples[i] = rb.buffer[rb.readPos]
		rb.readPos = (rb.readPos + 1) % rb.size
		rb.count--
		read++
	}
	return read
}

// Discard drops up to n samples from the read side
func (rb *RingBuffer) Discard(n int) int {
	if n > rb.count {
		n = rb.count
	}
	rb.readPos = (rb.readPos + n) % rb.size
	rb.count -= n
	return n
}

// Reset empties the buffer
func (rb *RingBuffer) Reset() {
	rb.readPos = 0
	rb.writePos = 0
	rb.count = 0
}

// Available returns the number of samples available to read
func (rb *RingBuffer) Available() int {
	return rb.count
}

// Free returns the number of free slots in the buffer
func (rb *RingBuffer) Free() int {
	return rb.size - rb.count
}

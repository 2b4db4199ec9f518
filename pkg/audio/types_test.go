// ABOUTME: Tests for audio types
// ABOUTME: Tests volume helpers and sample conversion functions
package audio

import "testing"

func TestClampVolume(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"in range", 42, 42},
		{"min", 0, 0},
		{"max", 100, 100},
		{"below", -5, 0},
		{"above", 130, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampVolume(tt.input); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestEffectiveVolume(t *testing.T) {
	tests := []struct {
		volume   int
		muted    bool
		expected int
	}{
		{100, false, 100},
		{50, false, 50},
		{0, false, 0},
		{80, true, 0}, // Muted overrides volume
		{150, false, 100},
	}

	for _, tt := range tests {
		result := EffectiveVolume(tt.volume, tt.muted)
		if result != tt.expected {
			t.Errorf("volume=%d, muted=%v: expected %d, got %d",
				tt.volume, tt.muted, tt.expected, result)
		}
	}
}

func TestVolumeMultiplier(t *testing.T) {
	if got := VolumeMultiplier(50); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
	if got := VolumeMultiplier(100); got != 1.0 {
		t.Errorf("expected 1.0, got %f", got)
	}
	if got := VolumeMultiplier(-1); got != 0.0 {
		t.Errorf("expected 0.0, got %f", got)
	}
}

func TestClampInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 1234, 1234},
		{"negative", -1234, -1234},
		{"overflow", 40000, 32767},
		{"underflow", -40000, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampInt16(tt.input); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestInt16BytesRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 0x1234}
	buf := make([]byte, len(samples)*2)
	Int16ToBytes(samples, buf)

	// Little-endian layout
	if buf[10] != 0x34 || buf[11] != 0x12 {
		t.Errorf("expected little-endian bytes 34 12, got %02x %02x", buf[10], buf[11])
	}

	back := make([]int16, len(samples))
	if n := BytesToInt16(buf, back); n != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), n)
	}
	for i := range samples {
		if back[i] != samples[i] {
			t.Errorf("sample %d: expected %d, got %d", i, samples[i], back[i])
		}
	}
}

func TestBytesToInt16ShortOutput(t *testing.T) {
	out := make([]int16, 2)
	if n := BytesToInt16([]byte{1, 0, 2, 0, 3, 0}, out); n != 2 {
		t.Errorf("expected 2 samples, got %d", n)
	}
	if out[0] != 1 || out[1] != 2 {
		t.Errorf("expected [1 2], got %v", out)
	}
}

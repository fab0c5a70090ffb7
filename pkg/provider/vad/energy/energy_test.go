package energy

import (
	"encoding/binary"
	"testing"
)

// pcmFrame builds a mono 16-bit frame with every sample set to amplitude.
func pcmFrame(samples int, amplitude int16) []byte {
	frame := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(frame[i*2:], uint16(amplitude))
	}
	return frame
}

func TestIsSpeech_SilentFrame(t *testing.T) {
	c := New()
	speech, err := c.IsSpeech(pcmFrame(320, 0), 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if speech {
		t.Fatal("all-zero frame classified as speech")
	}
}

func TestIsSpeech_LoudFrame(t *testing.T) {
	c := New()
	speech, err := c.IsSpeech(pcmFrame(320, 10000), 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !speech {
		t.Fatal("loud frame classified as silence")
	}
}

func TestIsSpeech_ThresholdBoundary(t *testing.T) {
	// A constant-amplitude frame has RMS equal to that amplitude.
	c := New(WithThreshold(500))

	speech, err := c.IsSpeech(pcmFrame(320, 499), 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if speech {
		t.Fatal("frame below threshold classified as speech")
	}

	speech, err = c.IsSpeech(pcmFrame(320, 501), 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !speech {
		t.Fatal("frame above threshold classified as silence")
	}
}

func TestIsSpeech_MalformedFrame(t *testing.T) {
	c := New()
	if _, err := c.IsSpeech(make([]byte, 5), 16000); err == nil {
		t.Fatal("odd byte count accepted")
	}
	if _, err := c.IsSpeech(nil, 16000); err == nil {
		t.Fatal("empty frame accepted")
	}
	if _, err := c.IsSpeech(pcmFrame(320, 0), 0); err == nil {
		t.Fatal("zero sample rate accepted")
	}
}

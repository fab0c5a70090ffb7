// Package audio provides the PCM/WAV primitives the segmentation pipeline
// works with: format validation for incoming audio, frame-size arithmetic,
// and minimal RIFF/WAVE encoding and decoding.
//
// The pipeline operates exclusively on 16-bit signed little-endian mono PCM.
// Anything else is rejected at the boundary with [ErrInvalidFormat] — codec
// and container conversion is the job of upstream collaborators, not this
// module.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when audio does not match the mono 16-bit PCM
// format the pipeline requires. It is fatal to the segment that carried the
// audio, not to the session.
var ErrInvalidFormat = errors.New("audio: invalid format")

const (
	// BytesPerSample is fixed at 2 for 16-bit signed little-endian PCM.
	BytesPerSample = 2

	// wavHeaderSize is the size of the canonical 44-byte RIFF/WAVE header
	// written by [EncodeWAV].
	wavHeaderSize = 44
)

// Format describes a PCM stream.
type Format struct {
	// SampleRate in Hz (e.g., 16000).
	SampleRate int

	// Channels is the channel count. The pipeline requires 1.
	Channels int

	// BitsPerSample is the sample width in bits. The pipeline requires 16.
	BitsPerSample int
}

// Validate checks that f is the mono 16-bit format the pipeline supports at
// the given expected sample rate.
func (f Format) Validate(wantRate int) error {
	if f.Channels != 1 {
		return fmt.Errorf("%w: %d channels, want mono", ErrInvalidFormat, f.Channels)
	}
	if f.BitsPerSample != 16 {
		return fmt.Errorf("%w: %d bits per sample, want 16", ErrInvalidFormat, f.BitsPerSample)
	}
	if f.SampleRate != wantRate {
		return fmt.Errorf("%w: sample rate %d Hz, want %d Hz", ErrInvalidFormat, f.SampleRate, wantRate)
	}
	return nil
}

// FrameSize returns the byte size of one audio frame of frameDurationMs
// milliseconds at sampleRate Hz for mono 16-bit PCM. At 16 kHz and 20 ms this
// is 320 samples = 640 bytes.
func FrameSize(sampleRate, frameDurationMs int) int {
	samplesPerFrame := sampleRate * frameDurationMs / 1000
	return samplesPerFrame * BytesPerSample
}

// EncodeWAV wraps raw mono 16-bit PCM in a canonical 44-byte RIFF/WAVE
// header. The pcm slice is copied; the input is not retained.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * numChannels * BytesPerSample
	blockAlign := numChannels * BytesPerSample

	buf := make([]byte, wavHeaderSize+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+len(pcm)))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], numChannels)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[wavHeaderSize:], pcm)
	return buf
}

// DecodeWAV parses a RIFF/WAVE byte stream and returns the raw PCM samples of
// the data chunk together with the declared format. Only uncompressed PCM is
// accepted. The returned slice aliases data; callers that outlive data must
// copy it.
func DecodeWAV(data []byte) ([]byte, Format, error) {
	if len(data) < wavHeaderSize ||
		string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, Format{}, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrInvalidFormat)
	}

	var f Format
	var pcm []byte
	foundFmt := false

	// Walk the chunk list. Chunks are word-aligned; a trailing pad byte
	// follows odd-sized chunks.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, Format{}, fmt.Errorf("%w: truncated fmt chunk", ErrInvalidFormat)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return nil, Format{}, fmt.Errorf("%w: compressed WAV (format tag %d)", ErrInvalidFormat, audioFormat)
			}
			f.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			f.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			foundFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !foundFmt {
		return nil, Format{}, fmt.Errorf("%w: missing fmt chunk", ErrInvalidFormat)
	}
	if pcm == nil {
		return nil, Format{}, fmt.Errorf("%w: missing data chunk", ErrInvalidFormat)
	}
	return pcm, f, nil
}

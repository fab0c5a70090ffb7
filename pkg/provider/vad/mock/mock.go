// Package mock provides test doubles for the vad package interfaces.
//
// Use Classifier to script a per-frame speech/silence sequence and inspect
// the frames that were submitted:
//
//	cls := &mock.Classifier{Script: []bool{true, true, false}}
//	speech, _ := cls.IsSpeech(frame, 16000)
//
// When the script is exhausted, Default is returned for every further frame.
package mock

import (
	"sync"

	"github.com/polyscribe/polyscribe/pkg/provider/vad"
)

// IsSpeechCall records a single invocation of Classifier.IsSpeech.
type IsSpeechCall struct {
	// Frame is a copy of the bytes passed to IsSpeech.
	Frame []byte

	// SampleRate is the rate passed to IsSpeech.
	SampleRate int
}

// Classifier is a mock implementation of vad.Classifier.
type Classifier struct {
	mu sync.Mutex

	// Script holds the classification returned for each successive frame, in
	// order. Once exhausted, Default is returned.
	Script []bool

	// Default is returned when Script is exhausted (or empty).
	Default bool

	// Err, if non-nil, is returned by every IsSpeech call.
	Err error

	// IsSpeechCalls records every call to IsSpeech in order.
	IsSpeechCalls []IsSpeechCall

	next int
}

// IsSpeech records the call and returns the next scripted classification.
func (c *Classifier) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]byte, len(frame))
	copy(cp, frame)
	c.IsSpeechCalls = append(c.IsSpeechCalls, IsSpeechCall{Frame: cp, SampleRate: sampleRate})
	if c.Err != nil {
		return false, c.Err
	}
	if c.next < len(c.Script) {
		v := c.Script[c.next]
		c.next++
		return v, nil
	}
	return c.Default, nil
}

// Reset clears recorded calls and rewinds the script. Thread-safe.
func (c *Classifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.IsSpeechCalls = nil
	c.next = 0
}

// Ensure Classifier implements vad.Classifier at compile time.
var _ vad.Classifier = (*Classifier)(nil)

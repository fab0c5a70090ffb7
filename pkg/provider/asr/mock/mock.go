// Package mock provides test doubles for the asr package interfaces.
//
// Use Provider to inject canned transcripts and inspect the requests made by
// the pipeline:
//
//	p := &mock.Provider{Text: "hello world"}
//	text, _ := p.Transcribe(ctx, asr.Request{Audio: pcm})
package mock

import (
	"context"
	"sync"

	"github.com/polyscribe/polyscribe/pkg/provider/asr"
)

// TranscribeCall records a single invocation of Provider.Transcribe.
type TranscribeCall struct {
	// Req is the request passed to Transcribe. The audio slice is copied.
	Req asr.Request
}

// Provider is a mock implementation of asr.Provider.
type Provider struct {
	mu sync.Mutex

	// Text is returned by every Transcribe call when Texts is empty.
	Text string

	// Texts, when non-empty, is returned one element per call in order. Once
	// exhausted, Text is returned.
	Texts []string

	// Err, if non-nil, is returned by every Transcribe call.
	Err error

	// TranscribeCalls records every call to Transcribe in order.
	TranscribeCalls []TranscribeCall

	next int
}

// Transcribe records the call and returns the next canned transcript.
func (p *Provider) Transcribe(_ context.Context, req asr.Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := req
	cp.Audio = make([]byte, len(req.Audio))
	copy(cp.Audio, req.Audio)
	p.TranscribeCalls = append(p.TranscribeCalls, TranscribeCall{Req: cp})
	if p.Err != nil {
		return "", p.Err
	}
	if p.next < len(p.Texts) {
		t := p.Texts[p.next]
		p.next++
		return t, nil
	}
	return p.Text, nil
}

// Reset clears all recorded calls and rewinds Texts. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranscribeCalls = nil
	p.next = 0
}

// Ensure Provider implements asr.Provider at compile time.
var _ asr.Provider = (*Provider)(nil)

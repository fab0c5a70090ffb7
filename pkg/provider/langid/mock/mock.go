// Package mock provides test doubles for the langid package interfaces.
package mock

import (
	"sync"

	"github.com/polyscribe/polyscribe/pkg/provider/langid"
)

// Backend is a mock implementation of langid.Backend.
type Backend struct {
	mu sync.Mutex

	// Candidates is returned by every DetectRanked call.
	Candidates []langid.Candidate

	// DetectRankedCalls records the text of every call in order.
	DetectRankedCalls []string
}

// DetectRanked records the call and returns Candidates.
func (b *Backend) DetectRanked(text string) []langid.Candidate {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.DetectRankedCalls = append(b.DetectRankedCalls, text)
	return b.Candidates
}

// Reset clears all recorded calls. Thread-safe.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.DetectRankedCalls = nil
}

// Ensure Backend implements langid.Backend at compile time.
var _ langid.Backend = (*Backend)(nil)

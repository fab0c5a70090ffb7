// Package langid defines the Backend interface for statistical language
// identification.
//
// A backend scores a text against the languages it knows and returns a ranked
// candidate list. Restricting the result to the pipeline's supported language
// set and choosing a default when nothing qualifies is policy, and lives in
// the langdetect package — backends only rank.
//
// Implementations must be safe for concurrent use.
package langid

import "github.com/polyscribe/polyscribe/pkg/types"

// Candidate is one scored language guess.
type Candidate struct {
	// Language is the guessed language.
	Language types.Language

	// Probability is the backend's confidence (0.0–1.0). Candidates are
	// ordered by descending probability; ties are backend-defined.
	Probability float64
}

// Backend ranks the likely languages of a text.
type Backend interface {
	// DetectRanked returns candidates ordered from most to least probable.
	// An empty slice means the backend could not classify the text at all
	// (e.g., empty or purely numeric input). Must not return an error for
	// unclassifiable text — an empty result is the contract for that.
	DetectRanked(text string) []Candidate
}

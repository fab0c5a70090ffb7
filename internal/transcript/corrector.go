// Package transcript repairs speech-recognition errors in domain
// vocabulary. Company names, product names, and technical acronyms are the
// terms the recognizer mishears most, and they are exactly the terms the
// keyword index and glossaries depend on downstream, so the corrector
// realigns transcripts with the known vocabulary before any matching or
// translation runs.
//
// Correction is a single in-process phonetic pass over the transcript:
// every n-gram window up to the longest vocabulary term is tested against
// the term list and replaced when a sufficiently similar term exists. Each
// [Correction] records the substitution and its confidence so callers can
// log or display what was changed.
package transcript

import (
	"strings"

	"github.com/polyscribe/polyscribe/internal/transcript/phonetic"
)

// Correction is one phrase-level substitution applied to a transcript.
type Correction struct {
	// Original is the phrase as produced by the recognizer.
	Original string

	// Corrected is the vocabulary term that replaced it.
	Corrected string

	// Confidence is the similarity score of the match (0.0–1.0).
	Confidence float64
}

// Corrector realigns transcripts with a fixed vocabulary. Build one at
// startup from the keyword table's surface forms; it is read-only and safe
// for concurrent use across sessions.
type Corrector struct {
	matcher *phonetic.Matcher
}

// NewCorrector builds a Corrector over vocabulary. Matcher options tune the
// similarity thresholds.
func NewCorrector(vocabulary []string, opts ...phonetic.Option) *Corrector {
	return &Corrector{matcher: phonetic.New(vocabulary, opts...)}
}

// Correct scans text for vocabulary-like phrases and returns the corrected
// text with the list of substitutions in order of appearance. Whitespace
// between tokens is normalised to single spaces in the output.
//
// At each token position the longest matching n-gram wins, so a multi-word
// term takes precedence over a partial single-word match.
func (c *Corrector) Correct(text string) (string, []Correction) {
	tokens := strings.Fields(text)
	maxWindow := c.matcher.MaxTermWords()
	if len(tokens) == 0 || maxWindow == 0 {
		return text, nil
	}

	var out []string
	var corrections []Correction
	for i := 0; i < len(tokens); {
		window := maxWindow
		if i+window > len(tokens) {
			window = len(tokens) - i
		}

		matched := false
		for n := window; n >= 1; n-- {
			phrase := strings.Join(tokens[i:i+n], " ")
			term, conf, ok := c.matcher.Match(phrase)
			if !ok {
				continue
			}
			out = append(out, strings.Fields(term)...)
			if term != phrase {
				corrections = append(corrections, Correction{
					Original: phrase, Corrected: term, Confidence: conf,
				})
			}
			i += n
			matched = true
			break
		}
		if !matched {
			out = append(out, tokens[i])
			i++
		}
	}
	return strings.Join(out, " "), corrections
}

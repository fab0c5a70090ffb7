// Package phonetic matches misheard transcript fragments against a known
// term list using Double Metaphone phonetic encoding ranked by Jaro-Winkler
// string similarity.
//
// Candidate selection runs in two stages. First, terms sharing at least one
// Double Metaphone code with the input become phonetic candidates and are
// ranked by Jaro-Winkler on the surface strings against a moderate
// threshold. When nothing overlaps phonetically, a second pass tests pure
// Jaro-Winkler similarity against all terms with a stricter threshold.
//
// Multi-word terms and split words are supported: the best score across
// full-string, space-stripped, and pairwise-token comparisons is used, so
// "photo resist" can still align with "photoresist". Terms in scripts
// Double Metaphone cannot encode (such as CJK) produce no codes and only
// match through the strict fuzzy pass, which in practice leaves them
// untouched.
package phonetic

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85
)

// Option configures a [Matcher].
type Option func(*Matcher)

// WithPhoneticThreshold sets the minimum Jaro-Winkler score for a
// phonetically-overlapping term to be accepted. Default: 0.70.
func WithPhoneticThreshold(threshold float64) Option {
	return func(m *Matcher) { m.phoneticThreshold = threshold }
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score when no phonetic
// overlap exists. Default: 0.85.
func WithFuzzyThreshold(threshold float64) Option {
	return func(m *Matcher) { m.fuzzyThreshold = threshold }
}

// term is one known surface form with its precomputed phonetic codes.
type term struct {
	surface string
	lower   string
	tokens  []string
	codes   map[string]struct{}
}

// Matcher aligns transcript fragments with a fixed term list. The term
// codes are computed once at construction; a Matcher is read-only afterward
// and safe for concurrent use.
type Matcher struct {
	terms             []term
	maxTermWords      int
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// New builds a Matcher over the given terms. Blank terms are skipped.
func New(terms []string, opts ...Option) *Matcher {
	m := &Matcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	for _, t := range terms {
		lower := strings.ToLower(strings.TrimSpace(t))
		if lower == "" {
			continue
		}
		tokens := strings.Fields(lower)
		m.terms = append(m.terms, term{
			surface: strings.TrimSpace(t),
			lower:   lower,
			tokens:  tokens,
			codes:   codesForTokens(tokens),
		})
		if len(tokens) > m.maxTermWords {
			m.maxTermWords = len(tokens)
		}
	}
	return m
}

// MaxTermWords reports the token count of the longest known term. Callers
// use it to bound the n-gram window size when scanning a transcript.
func (m *Matcher) MaxTermWords() int { return m.maxTermWords }

// Match finds the known term most phonetically similar to phrase. phrase
// may be a single word or a space-separated n-gram.
//
// When matched is false, corrected equals phrase unchanged and confidence
// is 0.
func (m *Matcher) Match(phrase string) (corrected string, confidence float64, matched bool) {
	trimmed := strings.TrimSpace(phrase)
	if trimmed == "" || len(m.terms) == 0 {
		return phrase, 0, false
	}

	lower := strings.ToLower(trimmed)
	tokens := strings.Fields(lower)
	inputCodes := codesForTokens(tokens)
	inputLen := len(strings.Join(tokens, ""))

	var (
		bestTerm     string
		bestScore    float64
		bestPhonetic bool
	)
	for _, t := range m.terms {
		// Similar pronunciations have similar lengths. The guard stops the
		// Jaro-Winkler prefix bonus from aligning a phrase with a term that
		// is a fraction of its size, which would swallow neighbouring words
		// when n-gram windows are scanned.
		termLen := len(strings.Join(t.tokens, ""))
		if !comparableLengths(inputLen, termLen) {
			continue
		}
		score := bestSimilarity(tokens, t.tokens, lower, t.lower)
		if codesOverlap(inputCodes, t.codes) {
			if score >= m.phoneticThreshold && (!bestPhonetic || score > bestScore) {
				bestTerm, bestScore, bestPhonetic = t.surface, score, true
			}
		} else if !bestPhonetic && score >= m.fuzzyThreshold && score > bestScore {
			bestTerm, bestScore = t.surface, score
		}
	}

	if bestTerm == "" {
		return phrase, 0, false
	}
	return bestTerm, bestScore, true
}

// codesForTokens returns the union of Double Metaphone codes over tokens.
// Tokens the encoding cannot represent contribute nothing.
func codesForTokens(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

// comparableLengths reports whether two compact (space-stripped) lengths
// are within a factor of two of each other.
func comparableLengths(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return b == 0 || a*2 >= b
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}

// bestSimilarity is the highest Jaro-Winkler score across full-string,
// space-stripped, and pairwise-token comparisons. The extra strategies
// cover word-boundary mismatches between what was heard and the term.
//
// The pairwise comparison is skipped when a multi-token input is tested
// against a single-token term: one strong token would otherwise pull its
// unrelated neighbours into the match.
func bestSimilarity(inputTokens, termTokens []string, inputFull, termFull string) float64 {
	score := matchr.JaroWinkler(inputFull, termFull, false)

	if len(inputTokens) > 1 || len(termTokens) > 1 {
		joined := matchr.JaroWinkler(
			strings.Join(inputTokens, ""), strings.Join(termTokens, ""), false)
		if joined > score {
			score = joined
		}
	}

	if len(termTokens) > 1 || len(inputTokens) == 1 {
		for _, it := range inputTokens {
			for _, tt := range termTokens {
				if s := matchr.JaroWinkler(it, tt, false); s > score {
					score = s
				}
			}
		}
	}
	return score
}

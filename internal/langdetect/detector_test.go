package langdetect

import (
	"testing"

	"github.com/polyscribe/polyscribe/pkg/provider/langid"
	langidmock "github.com/polyscribe/polyscribe/pkg/provider/langid/mock"
	"github.com/polyscribe/polyscribe/pkg/types"
)

func TestDetect_PicksHighestSupportedCandidate(t *testing.T) {
	backend := &langidmock.Backend{
		Candidates: []langid.Candidate{
			{Language: types.Language("ko"), Probability: 0.9}, // unsupported
			{Language: types.Japanese, Probability: 0.7},
			{Language: types.English, Probability: 0.2},
		},
	}
	d := New(backend, types.English)

	if got := d.Detect("こんにちは"); got != types.Japanese {
		t.Fatalf("Detect = %s, want ja", got)
	}
	if len(backend.DetectRankedCalls) != 1 {
		t.Fatalf("backend called %d times, want 1", len(backend.DetectRankedCalls))
	}
}

func TestDetect_NoSupportedCandidateUsesDefault(t *testing.T) {
	backend := &langidmock.Backend{
		Candidates: []langid.Candidate{
			{Language: types.Language("ko"), Probability: 0.9},
		},
	}
	d := New(backend, types.German)

	if got := d.Detect("안녕하세요"); got != types.German {
		t.Fatalf("Detect = %s, want default de", got)
	}
}

func TestDetect_EmptyRankingUsesDefault(t *testing.T) {
	d := New(&langidmock.Backend{}, types.Taiwanese)
	if got := d.Detect(""); got != types.Taiwanese {
		t.Fatalf("Detect = %s, want default tw", got)
	}
}

func TestNew_UnsupportedDefaultFallsBackToEnglish(t *testing.T) {
	d := New(&langidmock.Backend{}, types.Language("xx"))
	if got := d.Detect("anything"); got != types.English {
		t.Fatalf("Detect = %s, want en", got)
	}
}

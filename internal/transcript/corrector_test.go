package transcript

import (
	"testing"
)

func TestCorrector_RealignsVocabulary(t *testing.T) {
	t.Parallel()

	c := NewCorrector([]string{"TSMC", "photoresist", "advanced packaging"})

	got, corrections := c.Correct("the tsmc photo resist supply")
	if got != "the TSMC photoresist supply" {
		t.Fatalf("Correct = %q", got)
	}
	if len(corrections) != 2 {
		t.Fatalf("got %d corrections, want 2: %+v", len(corrections), corrections)
	}
	if corrections[0].Original != "tsmc" || corrections[0].Corrected != "TSMC" {
		t.Errorf("correction 0 = %+v", corrections[0])
	}
	if corrections[1].Original != "photo resist" || corrections[1].Corrected != "photoresist" {
		t.Errorf("correction 1 = %+v", corrections[1])
	}
}

func TestCorrector_LongestWindowWins(t *testing.T) {
	t.Parallel()

	c := NewCorrector([]string{"advanced packaging"})
	got, corrections := c.Correct("advance packaging line status")
	if got != "advanced packaging line status" {
		t.Fatalf("Correct = %q", got)
	}
	if len(corrections) != 1 {
		t.Fatalf("got %d corrections, want 1: %+v", len(corrections), corrections)
	}
	if corrections[0].Original != "advance packaging" {
		t.Errorf("correction consumed %q, want the two-token window", corrections[0].Original)
	}
}

func TestCorrector_CleanTranscriptUnchanged(t *testing.T) {
	t.Parallel()

	c := NewCorrector([]string{"TSMC"})
	got, corrections := c.Correct("supply chains are stable")
	if got != "supply chains are stable" {
		t.Fatalf("Correct = %q", got)
	}
	if len(corrections) != 0 {
		t.Fatalf("unexpected corrections: %+v", corrections)
	}
}

func TestCorrector_EmptyVocabularyIsPassthrough(t *testing.T) {
	t.Parallel()

	c := NewCorrector(nil)
	in := "anything   at all"
	got, corrections := c.Correct(in)
	if got != in {
		t.Fatalf("Correct = %q, want input unchanged", got)
	}
	if corrections != nil {
		t.Fatalf("unexpected corrections: %+v", corrections)
	}
}

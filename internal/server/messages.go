package server

import (
	"github.com/polyscribe/polyscribe/pkg/types"
)

// Wire message type tags. Every text frame the server sends carries one of
// these in its "type" field; clients send MessageFinalize to end a stream.
const (
	MessageSegment  = "segment"
	MessageSummary  = "summary"
	MessageError    = "error"
	MessageFinalize = "finalize"
)

// ClientCommand is a control frame sent by the client as JSON text.
// Audio always travels as binary frames.
type ClientCommand struct {
	Type string `json:"type"`
}

// SegmentMessage reports one processed speech segment. Sent as soon as the
// segment clears the pipeline, before the stream ends.
type SegmentMessage struct {
	Type string `json:"type"`

	// Transcript is the raw recognized text.
	Transcript string `json:"transcript"`

	// Annotated is the transcript with keyword explanations appended.
	Annotated string `json:"annotated,omitempty"`

	// SourceLanguage is the detected language of the transcript.
	SourceLanguage string `json:"source_language"`

	// KeywordIDs lists matched keyword concepts in order of appearance,
	// duplicates included.
	KeywordIDs []int `json:"keyword_ids,omitempty"`

	// Translations maps each target language to its translated text.
	Translations map[string]string `json:"translations"`
}

// SummaryMessage is the terminal frame of a stream: the full per-language
// transcript history plus processing stats.
type SummaryMessage struct {
	Type        string              `json:"type"`
	Transcripts map[string][]string `json:"transcripts"`
	Segments    int                 `json:"segments"`
	ElapsedMs   int64               `json:"elapsed_ms"`
}

// ErrorMessage reports a recoverable processing error. The stream stays
// open after one is sent.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func newSegmentMessage(res *types.SegmentResult, annotated string) SegmentMessage {
	translations := make(map[string]string, len(res.Translations))
	for lang, text := range res.Translations {
		translations[string(lang)] = text
	}
	return SegmentMessage{
		Type:           MessageSegment,
		Transcript:     res.Transcript,
		Annotated:      annotated,
		SourceLanguage: string(res.SourceLanguage),
		KeywordIDs:     res.KeywordIDs,
		Translations:   translations,
	}
}

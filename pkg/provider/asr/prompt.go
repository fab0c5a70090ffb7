package asr

import "strings"

// promptFiller is appended after the keyword list in [BiasingPrompt]. Whisper
// treats the prompt as preceding conversation context; these deliberately
// unremarkable sentences keep the model from echoing or deleting repeated
// phrases, and the Traditional Chinese instruction steers the script variant
// for Mandarin speech.
const promptFiller = "If any Simplified Chinese is detected, please respond using Traditional Chinese. " +
	"Whisper, Ok. " +
	"A pertinent sentence for your purpose in your language. " +
	"Ok, Whisper. Whisper, Ok. Ok, Whisper. Whisper, Ok. " +
	"Please find here, an unlikely ordinary sentence. " +
	"This is to avoid a repetition to be deleted. " +
	"Ok, Whisper. "

// BiasingPrompt builds the recognition bias hint injected into every
// transcription request. Keywords are joined into a single instruction so the
// model favours their exact surface forms; with no keywords only the filler
// remains.
func BiasingPrompt(keywords []string) string {
	var b strings.Builder
	if len(keywords) > 0 {
		b.WriteString("Recognize the following keywords accurately and emphasize them strongly: ")
		b.WriteString(strings.Join(keywords, ", "))
		b.WriteString(". ")
	}
	b.WriteString(promptFiller)
	return b.String()
}

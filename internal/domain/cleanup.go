package domain

import (
	"strings"
	"unicode"
)

// ComposingLimit caps the length of in-progress text after cleanup
const ComposingLimit = 35

// CleanWord normalizes a raw submission: control characters are
// stripped, surrounding whitespace trimmed, inner whitespace collapsed
// to single spaces. The empty string means the submission carried
// nothing usable.
func CleanWord(raw string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		switch {
		case unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanComposing normalizes in-progress text and truncates it to the
// composing limit.
func CleanComposing(raw string) string {
	text := CleanWord(raw)
	runes := []rune(text)
	if len(runes) > ComposingLimit {
		text = string(runes[:ComposingLimit])
	}
	return text
}

// Validator decides whether a cleaned word may enter the story.
// Lexical and grammar checks live behind this interface; the engine
// only requires a yes/no answer.
type Validator interface {
	Validate(word string) bool
}

// AllowAllValidator accepts every non-empty word. It is the default
// validator; real lexical checking plugs in here.
type AllowAllValidator struct{}

// Validate implements Validator
func (AllowAllValidator) Validate(word string) bool {
	return word != ""
}

package domain

import "strings"

// closingPunctuation are characters that glue to the preceding word:
// no space is inserted before a word starting with one of these.
const closingPunctuation = ".,:;!?)'"

// openingMarks are characters that glue to the following word: no
// space is inserted after a word ending with one of these.
const openingMarks = "(\"'"

// Detokenize joins words into natural prose: a single space before
// each word except the first, except when the word begins with closing
// punctuation or the previous word ends with an opening quote or
// parenthesis.
func Detokenize(words []string) string {
	var b strings.Builder
	for i, word := range words {
		if word == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			if !startsWithAny(word, closingPunctuation) && !endsWithAny(words[i-1], openingMarks) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(word)
	}
	return b.String()
}

func startsWithAny(s, chars string) bool {
	return s != "" && strings.ContainsRune(chars, rune(s[0]))
}

func endsWithAny(s, chars string) bool {
	return s != "" && strings.ContainsRune(chars, rune(s[len(s)-1]))
}

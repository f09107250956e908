package domain

import "time"

// WordEntry is one accepted word in the story or its title. Immutable
// once appended, except for VoteScore.
type WordEntry struct {
	Text      string    `json:"text"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	VoteScore int       `json:"voteScore"`
}

// NewWordEntry creates a word entry authored by the given stable id
func NewWordEntry(text string, authorID int64) WordEntry {
	return WordEntry{
		Text:      text,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
}

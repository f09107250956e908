package domain

import (
	"sort"
	"time"
)

// StoryCapacity is how many words a story holds before titling begins
const StoryCapacity = 100

// TitlerCount is how many top contributors get to title the story
const TitlerCount = 5

// Story is the single server-wide story ledger: an append-only list of
// accepted words, the in-progress title, and the set of participants
// still eligible to contribute a title word.
type Story struct {
	Index           int64       `json:"index"`
	Entries         []WordEntry `json:"entries"`
	TitleEntries    []WordEntry `json:"titleEntries"`
	EligibleTitlers []int64     `json:"eligibleTitlers"`
	StartedAt       time.Time   `json:"startedAt"`
}

// NewStory creates an empty story with the given index
func NewStory(index int64) *Story {
	return &Story{
		Index:        index,
		Entries:      make([]WordEntry, 0, StoryCapacity),
		TitleEntries: make([]WordEntry, 0),
		StartedAt:    time.Now(),
	}
}

// Full returns true once the story has reached capacity
func (s *Story) Full() bool {
	return len(s.Entries) >= StoryCapacity
}

// Append adds an accepted word to the story
func (s *Story) Append(entry WordEntry) error {
	if s.Full() {
		return ErrStoryFull
	}
	s.Entries = append(s.Entries, entry)
	return nil
}

// AppendTitle adds an accepted title word
func (s *Story) AppendTitle(entry WordEntry) {
	s.TitleEntries = append(s.TitleEntries, entry)
}

// VoteAdjust applies a delta to an entry's vote score and returns the
// new score. An out-of-range index is a no-op error.
func (s *Story) VoteAdjust(entryIndex, delta int) (int, error) {
	if entryIndex < 0 || entryIndex >= len(s.Entries) {
		return 0, ErrEntryOutOfRange
	}
	s.Entries[entryIndex].VoteScore += delta
	return s.Entries[entryIndex].VoteScore, nil
}

// TopContributors returns up to n author ids ranked by how many words
// each contributed, most first. Ties rank the author whose first word
// appeared earliest higher.
func (s *Story) TopContributors(n int) []int64 {
	counts := make(map[int64]int)
	firstSeen := make(map[int64]int)
	for i, entry := range s.Entries {
		if _, ok := counts[entry.AuthorID]; !ok {
			firstSeen[entry.AuthorID] = i
		}
		counts[entry.AuthorID]++
	}

	authors := make([]int64, 0, len(counts))
	for id := range counts {
		authors = append(authors, id)
	}
	sort.SliceStable(authors, func(i, j int) bool {
		if counts[authors[i]] != counts[authors[j]] {
			return counts[authors[i]] > counts[authors[j]]
		}
		return firstSeen[authors[i]] < firstSeen[authors[j]]
	})

	if len(authors) > n {
		authors = authors[:n]
	}
	return authors
}

// IsEligibleTitler reports whether the given id may submit a title word
func (s *Story) IsEligibleTitler(id int64) bool {
	for _, eligible := range s.EligibleTitlers {
		if eligible == id {
			return true
		}
	}
	return false
}

// ConsumeTitler removes an id from the eligible set after its title
// word is accepted. Returns false if the id was not eligible.
func (s *Story) ConsumeTitler(id int64) bool {
	for i, eligible := range s.EligibleTitlers {
		if eligible == id {
			s.EligibleTitlers = append(s.EligibleTitlers[:i], s.EligibleTitlers[i+1:]...)
			return true
		}
	}
	return false
}

// Title renders the title entries as natural text
func (s *Story) Title() string {
	return Detokenize(wordsOf(s.TitleEntries))
}

// Text renders the story entries as natural text
func (s *Story) Text() string {
	return Detokenize(wordsOf(s.Entries))
}

// Snapshot returns an immutable deep copy safe to hand to the
// finalization pipeline while the live story is concurrently reset.
func (s *Story) Snapshot() StorySnapshot {
	snap := StorySnapshot{
		Index:        s.Index,
		Entries:      make([]WordEntry, len(s.Entries)),
		TitleEntries: make([]WordEntry, len(s.TitleEntries)),
		StartedAt:    s.StartedAt,
	}
	copy(snap.Entries, s.Entries)
	copy(snap.TitleEntries, s.TitleEntries)
	return snap
}

// StorySnapshot is a frozen copy of a completed story
type StorySnapshot struct {
	Index        int64       `json:"index"`
	Entries      []WordEntry `json:"entries"`
	TitleEntries []WordEntry `json:"titleEntries"`
	StartedAt    time.Time   `json:"startedAt"`
}

// Title renders the snapshot's title entries as natural text
func (s StorySnapshot) Title() string {
	return Detokenize(wordsOf(s.TitleEntries))
}

// Text renders the snapshot's story entries as natural text
func (s StorySnapshot) Text() string {
	return Detokenize(wordsOf(s.Entries))
}

func wordsOf(entries []WordEntry) []string {
	words := make([]string, len(entries))
	for i, entry := range entries {
		words[i] = entry.Text
	}
	return words
}

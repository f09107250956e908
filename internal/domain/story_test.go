package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillStory(t *testing.T, s *Story, authorCounts map[int64]int, order []int64) {
	t.Helper()
	remaining := make(map[int64]int, len(authorCounts))
	for id, count := range authorCounts {
		remaining[id] = count
	}
	for len(remaining) > 0 {
		for _, id := range order {
			if remaining[id] > 0 {
				require.NoError(t, s.Append(NewWordEntry("word", id)))
				remaining[id]--
				if remaining[id] == 0 {
					delete(remaining, id)
				}
			}
		}
	}
}

func TestStory_AppendStopsAtCapacity(t *testing.T) {
	s := NewStory(1)

	for i := 0; i < StoryCapacity; i++ {
		assert.False(t, s.Full())
		require.NoError(t, s.Append(NewWordEntry("word", 1)))
		assert.Equal(t, i+1, len(s.Entries))
	}

	assert.True(t, s.Full())
	assert.ErrorIs(t, s.Append(NewWordEntry("overflow", 1)), ErrStoryFull)
	assert.Equal(t, StoryCapacity, len(s.Entries))
}

func TestStory_TopContributorsRanking(t *testing.T) {
	s := NewStory(1)
	counts := map[int64]int{1: 40, 2: 30, 3: 20, 4: 5, 5: 3, 6: 2}
	fillStory(t, s, counts, []int64{1, 2, 3, 4, 5, 6})

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, s.TopContributors(5))
}

func TestStory_TopContributorsTieBreakByFirstAppearance(t *testing.T) {
	s := NewStory(1)

	// Equal counts; author 7 appears before author 3.
	require.NoError(t, s.Append(NewWordEntry("a", 7)))
	require.NoError(t, s.Append(NewWordEntry("b", 3)))
	require.NoError(t, s.Append(NewWordEntry("c", 3)))
	require.NoError(t, s.Append(NewWordEntry("d", 7)))

	assert.Equal(t, []int64{7, 3}, s.TopContributors(5))
}

func TestStory_TopContributorsFewerAuthorsThanSlots(t *testing.T) {
	s := NewStory(1)
	require.NoError(t, s.Append(NewWordEntry("a", 9)))

	assert.Equal(t, []int64{9}, s.TopContributors(5))
}

func TestStory_VoteAdjust(t *testing.T) {
	s := NewStory(1)
	require.NoError(t, s.Append(NewWordEntry("a", 1)))

	score, err := s.VoteAdjust(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	score, err = s.VoteAdjust(0, -2)
	require.NoError(t, err)
	assert.Equal(t, -1, score)

	_, err = s.VoteAdjust(1, 1)
	assert.ErrorIs(t, err, ErrEntryOutOfRange)

	_, err = s.VoteAdjust(-1, 1)
	assert.ErrorIs(t, err, ErrEntryOutOfRange)
}

func TestStory_SnapshotIsIndependent(t *testing.T) {
	s := NewStory(3)
	require.NoError(t, s.Append(NewWordEntry("first", 1)))
	s.AppendTitle(NewWordEntry("title", 1))

	snap := s.Snapshot()

	require.NoError(t, s.Append(NewWordEntry("second", 2)))
	s.Entries[0].VoteScore = 42
	s.TitleEntries[0].Text = "mutated"

	assert.Equal(t, int64(3), snap.Index)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "first", snap.Entries[0].Text)
	assert.Equal(t, 0, snap.Entries[0].VoteScore)
	require.Len(t, snap.TitleEntries, 1)
	assert.Equal(t, "title", snap.TitleEntries[0].Text)
}

func TestStory_ConsumeTitler(t *testing.T) {
	s := NewStory(1)
	s.EligibleTitlers = []int64{1, 2, 3}

	assert.True(t, s.IsEligibleTitler(2))
	assert.True(t, s.ConsumeTitler(2))
	assert.False(t, s.IsEligibleTitler(2))
	assert.False(t, s.ConsumeTitler(2))
	assert.Equal(t, []int64{1, 3}, s.EligibleTitlers)
}

func TestStory_TitleAndTextRendering(t *testing.T) {
	s := NewStory(1)
	for _, word := range []string{"Hello", ",", "world", "!"} {
		require.NoError(t, s.Append(NewWordEntry(word, 1)))
	}
	s.AppendTitle(NewWordEntry("The", 1))
	s.AppendTitle(NewWordEntry("End", 2))

	assert.Equal(t, "Hello, world!", s.Text())
	assert.Equal(t, "The End", s.Title())
}

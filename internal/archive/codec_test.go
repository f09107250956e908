package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onewordstory/internal/domain"
)

func sampleSnapshot(t *testing.T) domain.StorySnapshot {
	t.Helper()
	s := domain.NewStory(7)
	base := time.Now()
	words := []string{"Once", "upon", "a", "time", ",", "nothing", "happened", "."}
	for i, word := range words {
		entry := domain.WordEntry{
			Text:      word,
			AuthorID:  int64(i%3 + 1),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			VoteScore: i - 4,
		}
		require.NoError(t, s.Append(entry))
	}
	s.AppendTitle(domain.WordEntry{Text: "A", AuthorID: 1, CreatedAt: base})
	s.AppendTitle(domain.WordEntry{Text: "Story", AuthorID: 2, CreatedAt: base})
	return s.Snapshot()
}

func TestEncodeDecodeStoryRoundTrip(t *testing.T) {
	snap := sampleSnapshot(t)

	payload, err := EncodeStory(snap)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	decoded, err := DecodeStory(payload)
	require.NoError(t, err)

	assert.Equal(t, snap.Index, decoded.Index)
	assert.Equal(t, snap.StartedAt.UnixMilli(), decoded.StartedAt)

	require.Len(t, decoded.Words, len(snap.Entries))
	for i, entry := range snap.Entries {
		assert.Equal(t, entry.Text, decoded.Words[i])
		assert.Equal(t, entry.AuthorID, decoded.Authors[i])
		assert.Equal(t, entry.CreatedAt.UnixMilli(), decoded.Times[i])
		assert.Equal(t, entry.VoteScore, decoded.Votes[i])
	}

	assert.Equal(t, []string{"A", "Story"}, decoded.TitleWords)
}

func TestEncodeStoryEmpty(t *testing.T) {
	snap := domain.NewStory(0).Snapshot()

	payload, err := EncodeStory(snap)
	require.NoError(t, err)

	decoded, err := DecodeStory(payload)
	require.NoError(t, err)
	assert.Empty(t, decoded.Words)
	assert.Empty(t, decoded.TitleWords)
}

func TestDecodeStoryRejectsGarbage(t *testing.T) {
	_, err := DecodeStory("not base64 at all %%%")
	assert.Error(t, err)

	_, err = DecodeStory("aGVsbG8=") // valid base64, not zstd
	assert.Error(t, err)
}

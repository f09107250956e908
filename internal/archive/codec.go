package archive

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"onewordstory/internal/domain"
)

// storyRecord is the archival projection of a finished story: parallel
// arrays instead of entry structs, to keep the payload compact.
type storyRecord struct {
	Index      int64    `json:"index"`
	StartedAt  int64    `json:"startedAt"` // unix milliseconds
	Words      []string `json:"words"`
	Authors    []int64  `json:"authors"`
	Times      []int64  `json:"times"` // unix milliseconds
	Votes      []int    `json:"votes"`
	TitleWords []string `json:"titleWords"`
}

// zstdEncoder and zstdDecoder are reused across calls; both are safe
// for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("archive: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("archive: zstd decoder initialization failed: " + err.Error())
	}
}

// EncodeStory projects a snapshot into parallel arrays, compresses it
// and returns a transport-safe string. Deterministic; no I/O.
func EncodeStory(snap domain.StorySnapshot) (string, error) {
	record := storyRecord{
		Index:      snap.Index,
		StartedAt:  snap.StartedAt.UnixMilli(),
		Words:      make([]string, len(snap.Entries)),
		Authors:    make([]int64, len(snap.Entries)),
		Times:      make([]int64, len(snap.Entries)),
		Votes:      make([]int, len(snap.Entries)),
		TitleWords: make([]string, len(snap.TitleEntries)),
	}
	for i, entry := range snap.Entries {
		record.Words[i] = entry.Text
		record.Authors[i] = entry.AuthorID
		record.Times[i] = entry.CreatedAt.UnixMilli()
		record.Votes[i] = entry.VoteScore
	}
	for i, entry := range snap.TitleEntries {
		record.TitleWords[i] = entry.Text
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal story record: %w", err)
	}
	compressed := zstdEncoder.EncodeAll(raw, nil)
	return base64.StdEncoding.EncodeToString(compressed), nil
}

// DecodedStory is the result of unpacking an archived payload
type DecodedStory struct {
	Index      int64
	StartedAt  int64
	Words      []string
	Authors    []int64
	Times      []int64
	Votes      []int
	TitleWords []string
}

// DecodeStory reverses EncodeStory
func DecodeStory(payload string) (DecodedStory, error) {
	compressed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DecodedStory{}, fmt.Errorf("decode payload: %w", err)
	}
	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return DecodedStory{}, fmt.Errorf("zstd decompress: %w", err)
	}
	var record storyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return DecodedStory{}, fmt.Errorf("unmarshal story record: %w", err)
	}
	return DecodedStory{
		Index:      record.Index,
		StartedAt:  record.StartedAt,
		Words:      record.Words,
		Authors:    record.Authors,
		Times:      record.Times,
		Votes:      record.Votes,
		TitleWords: record.TitleWords,
	}, nil
}

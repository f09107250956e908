package narration

import (
	"encoding/binary"
	"errors"
	"time"
)

var errNotWav = errors.New("not a RIFF/WAVE stream")

// WavDuration reads the duration of a PCM WAV stream from its RIFF
// header: data chunk length divided by the fmt chunk's byte rate. Only
// the header is inspected; samples are never decoded.
func WavDuration(data []byte) (time.Duration, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, errNotWav
	}

	var byteRate uint32
	var dataLen uint32

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkLen := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+12 > len(data) {
				return 0, errNotWav
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
		case "data":
			dataLen = chunkLen
		}

		// Chunks are word-aligned.
		offset = body + int(chunkLen)
		if chunkLen%2 == 1 {
			offset++
		}
	}

	if byteRate == 0 || dataLen == 0 {
		return 0, errNotWav
	}

	seconds := float64(dataLen) / float64(byteRate)
	return time.Duration(seconds * float64(time.Second)), nil
}

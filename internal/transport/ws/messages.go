package ws

import "encoding/json"

// MessageType names a client-to-server packet. The single-character
// values are wire protocol constants shared with the web client.
type MessageType string

const (
	MsgWord      MessageType = "w" // Candidate word
	MsgVoteUp    MessageType = "i" // Vote an entry up
	MsgVoteDown  MessageType = "d" // Vote an entry down
	MsgVoteClear MessageType = "u" // Clear own vote on an entry
	MsgComposing MessageType = "*" // In-progress text
	MsgPing      MessageType = "p" // Liveness ping, no response
)

// ClientMessage is one client-to-server message. The payload shape
// depends on the type and is decoded lazily.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TextPayload decodes the payload as a string. Malformed non-string
// payloads degrade to the empty string rather than erroring; the
// engine turns empty submissions into a rejection.
func (m ClientMessage) TextPayload() string {
	var text string
	if err := json.Unmarshal(m.Payload, &text); err != nil {
		return ""
	}
	return text
}

// IndexPayload decodes the payload as an entry index. Malformed
// payloads degrade to -1, which every consumer treats as out of range.
func (m ClientMessage) IndexPayload() int {
	var index int
	if err := json.Unmarshal(m.Payload, &index); err != nil {
		return -1
	}
	return index
}

package domain

// PacketType names a server-to-client packet. The single-character
// values are wire protocol constants shared with the web client.
type PacketType string

const (
	PacketStateSync    PacketType = "c" // Initial state sync on connect
	PacketWordAccepted PacketType = "+" // Word accepted and appended
	PacketTitling      PacketType = "t" // Entered TITLING
	PacketTitleWord    PacketType = "s" // Title word accepted
	PacketFinalized    PacketType = "f" // Entered COOLDOWN, story finalized
	PacketVote         PacketType = "v" // Vote tally changed
	PacketComposing    PacketType = "A" // In-progress text broadcast
	PacketJoined       PacketType = "J" // Participant joined
	PacketLeft         PacketType = "L" // Participant left
	PacketReject       PacketType = "r" // Submission rejected
)

// Packet is one server-to-client message
type Packet struct {
	Type    PacketType `json:"type"`
	Payload any        `json:"payload,omitempty"`
}

// NewPacket creates a packet of the given type
func NewPacket(packetType PacketType, payload any) Packet {
	return Packet{Type: packetType, Payload: payload}
}

// Payload types for outbound packets

// StateSyncPayload is the full state handed to a freshly connected
// participant.
type StateSyncPayload struct {
	StoryIndex      int64           `json:"storyIndex"`
	Entries         []WordEntry     `json:"entries"`
	Version         int             `json:"version"`
	StableID        int64           `json:"stableId"`
	Mode            int             `json:"mode"`
	Users           []ComposingInfo `json:"users"`
	TitleEntries    []WordEntry     `json:"titleEntries"`
	EligibleTitlers []int64         `json:"eligibleTitlers"`
	ActivateAtMs    int64           `json:"activateAt"`
	TitleDeadlineMs int64           `json:"titleDeadline"`
}

// WordAcceptedPayload announces an appended story word. Remaining is
// the waitlist penalty just assigned to the author, if any.
type WordAcceptedPayload struct {
	Entry     WordEntry `json:"entry"`
	Remaining int       `json:"remaining,omitempty"`
}

// TitlingPayload announces the TITLING phase
type TitlingPayload struct {
	EligibleTitlers []int64 `json:"eligibleTitlers"`
	DeadlineMs      int64   `json:"deadline"`
}

// TitleWordPayload announces an accepted title word
type TitleWordPayload struct {
	Entry WordEntry `json:"entry"`
}

// VotePayload announces a changed vote tally
type VotePayload struct {
	EntryIndex int `json:"entryIndex"`
	Score      int `json:"score"`
}

// ComposingPayload broadcasts everyone's in-progress text
type ComposingPayload struct {
	Mode  int             `json:"mode"`
	Users []ComposingInfo `json:"users"`
}

// JoinedPayload announces a new participant
type JoinedPayload struct {
	StableID int64 `json:"stableId"`
}

// LeftPayload announces a departed participant
type LeftPayload struct {
	StableID int64  `json:"stableId"`
	Reason   string `json:"reason,omitempty"`
}

// RejectPayload refuses a submission. Extra carries code-specific
// detail, e.g. the remaining waitlist count for RejectWaitlisted.
type RejectPayload struct {
	Code  RejectCode `json:"code"`
	Extra any        `json:"extra,omitempty"`
}

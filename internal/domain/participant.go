package domain

import "time"

// Participant represents a connected player. The connection handle is
// transient and changes across reconnects; StableID is the logical
// identity recovered by the Registry.
type Participant struct {
	Handle    string    `json:"-"`
	StableID  int64     `json:"stableId"`
	Addr      string    `json:"-"`
	Composing string    `json:"composing"`
	JoinedAt  time.Time `json:"joinedAt"`

	// votes tracks this participant's current vote (-1, 0, +1) per
	// story entry index, so a vote change applies only the delta.
	votes map[int]int
}

// NewParticipant creates a participant bound to a connection handle
func NewParticipant(handle, addr string, stableID int64) *Participant {
	return &Participant{
		Handle:   handle,
		StableID: stableID,
		Addr:     addr,
		JoinedAt: time.Now(),
		votes:    make(map[int]int),
	}
}

// SetVote records a vote of -1, 0 or +1 for an entry and returns the
// delta to apply to the entry's score.
func (p *Participant) SetVote(entryIndex, vote int) int {
	if vote > 1 {
		vote = 1
	} else if vote < -1 {
		vote = -1
	}
	prev := p.votes[entryIndex]
	if vote == 0 {
		delete(p.votes, entryIndex)
	} else {
		p.votes[entryIndex] = vote
	}
	return vote - prev
}

// ClearVotes forgets all recorded votes (used when the story resets)
func (p *Participant) ClearVotes() {
	p.votes = make(map[int]int)
}

// ComposingInfo is the wire view of a participant's in-progress text
type ComposingInfo struct {
	StableID int64  `json:"stableId"`
	Text     string `json:"text"`
}

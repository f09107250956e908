package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"onewordstory/internal/domain"
)

// ProtocolVersion is echoed in the state sync packet so clients can
// detect incompatible servers.
const ProtocolVersion = 1

// packetQueueSize bounds the broadcast queue
const packetQueueSize = 256

// Conn is a connected client as the engine sees it
type Conn interface {
	Send(packet domain.Packet) error
	Close() error
}

// EngineSettings are the knobs the engine needs from configuration
type EngineSettings struct {
	WaitlistTiers         []int
	TitleDuration         time.Duration
	IdentityMaxIdle       time.Duration
	IdentityPurgeInterval time.Duration
}

// Engine owns all mutable game state: the single in-flight story, the
// identity registry, the waitlist and the phase machine. Every
// mutation goes through its methods under one mutex; timers re-check
// phase and generation after reacquiring it.
type Engine struct {
	mu        sync.Mutex
	settings  EngineSettings
	logger    *slog.Logger
	validator domain.Validator
	finalizer Finalizer

	phase           domain.Phase
	story           *domain.Story
	registry        *domain.Registry
	waitlist        *domain.Waitlist
	participants    map[string]*domain.Participant // by connection handle
	conns           map[string]Conn                // by connection handle
	generation      int64
	indexSynced     bool
	storyActivateAt time.Time
	titleDeadline   time.Time

	packets chan domain.Packet
	done    chan struct{}
	closed  bool
}

// NewEngine creates the engine. It starts unsynced: every submission
// is rejected until SetStoryIndex delivers the archive's counter.
func NewEngine(settings EngineSettings, validator domain.Validator, finalizer Finalizer, logger *slog.Logger) *Engine {
	e := &Engine{
		settings:     settings,
		logger:       logger,
		validator:    validator,
		finalizer:    finalizer,
		phase:        domain.PhaseActive,
		story:        domain.NewStory(0),
		registry:     domain.NewRegistry(),
		waitlist:     domain.NewWaitlist(settings.WaitlistTiers),
		participants: make(map[string]*domain.Participant),
		conns:        make(map[string]Conn),
		packets:      make(chan domain.Packet, packetQueueSize),
		done:         make(chan struct{}),
	}

	go e.broadcastLoop()
	go e.purgeLoop()

	return e
}

// SetStoryIndex installs the archive's current story counter and opens
// the engine for submissions.
func (e *Engine) SetStoryIndex(index int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.story.Index = index
	e.indexSynced = true
	e.logger.Info("story index synced", "index", index)
}

// Connect registers a new connection, recovering the participant's
// stable identity from its origin address, and replies with the full
// state sync.
func (e *Engine) Connect(handle, addr string, conn Conn) *domain.Participant {
	e.mu.Lock()
	defer e.mu.Unlock()

	stableID := e.registry.Resolve(handle, addr)
	participant := domain.NewParticipant(handle, addr, stableID)
	e.participants[handle] = participant
	e.conns[handle] = conn

	e.queuePacket(domain.NewPacket(domain.PacketJoined, domain.JoinedPayload{StableID: stableID}))

	state := domain.StateSyncPayload{
		StoryIndex:      e.story.Index,
		Entries:         e.story.Entries,
		Version:         ProtocolVersion,
		StableID:        stableID,
		Mode:            e.phase.Mode(),
		Users:           e.composingListLocked(),
		TitleEntries:    e.story.TitleEntries,
		EligibleTitlers: e.story.EligibleTitlers,
		ActivateAtMs:    e.storyActivateAt.UnixMilli(),
		TitleDeadlineMs: e.titleDeadline.UnixMilli(),
	}
	if err := conn.Send(domain.NewPacket(domain.PacketStateSync, state)); err != nil {
		e.logger.Debug("state sync send failed", "handle", handle, "error", err)
	}

	e.logger.Info("participant connected", "stableId", stableID, "addr", addr)
	return participant
}

// Disconnect releases a connection. The identity slot stays reserved
// for the origin address until purged.
func (e *Engine) Disconnect(handle, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	participant, ok := e.participants[handle]
	if !ok {
		return
	}
	delete(e.participants, handle)
	delete(e.conns, handle)
	e.registry.Release(handle)

	e.queuePacket(domain.NewPacket(domain.PacketLeft, domain.LeftPayload{
		StableID: participant.StableID,
		Reason:   reason,
	}))
	e.logger.Info("participant disconnected", "stableId", participant.StableID, "reason", reason)
}

// SubmitWord handles a `w` packet: admission control, cleanup and the
// phase machine. Refusals go back to the submitter as `r` packets and
// are never fatal.
func (e *Engine) SubmitWord(handle, raw string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	participant, ok := e.participants[handle]
	if !ok {
		return
	}

	if err := e.submitWordLocked(participant, raw); err != nil {
		code, known := domain.RejectCodeFor(err)
		if !known {
			e.logger.Error("submission failed", "handle", handle, "error", err)
			return
		}
		var extra any
		switch code {
		case domain.RejectWaitlisted:
			extra = e.waitlist.Status(handle)
		case domain.RejectTooEarly:
			extra = e.storyActivateAt.UnixMilli()
		}
		e.rejectLocked(handle, code, extra)
	}
}

// submitWordLocked applies a submission against the phase machine and
// returns a domain error for anything refusable.
func (e *Engine) submitWordLocked(participant *domain.Participant, raw string) error {
	if !e.indexSynced {
		return domain.ErrIndexNotSynced
	}
	if e.phase == domain.PhaseCooldown || time.Now().Before(e.storyActivateAt) {
		return domain.ErrStoryNotActive
	}

	word := domain.CleanWord(raw)
	if word == "" || !e.validator.Validate(word) {
		return domain.ErrEmptyWord
	}

	if e.phase == domain.PhaseTitling {
		return e.submitTitleWordLocked(participant, word)
	}

	if e.story.Full() {
		// Capacity reached but titling has not begun; only possible in
		// the window before the transition below runs.
		return domain.ErrStoryFull
	}

	if err := e.waitlist.Admit(participant.Handle, len(e.participants)); err != nil {
		return err
	}

	entry := domain.NewWordEntry(word, participant.StableID)
	if err := e.story.Append(entry); err != nil {
		return err
	}

	e.queuePacket(domain.NewPacket(domain.PacketWordAccepted, domain.WordAcceptedPayload{
		Entry:     entry,
		Remaining: e.waitlist.Status(participant.Handle),
	}))

	if e.story.Full() {
		e.beginTitlingLocked()
	}
	return nil
}

// Vote handles `i`/`d`/`u` packets: vote is +1, -1 or 0. Votes apply
// only while the story is being written; an out-of-range index is a
// silent no-op.
func (e *Engine) Vote(handle string, entryIndex, vote int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	participant, ok := e.participants[handle]
	if !ok || e.phase != domain.PhaseActive {
		return
	}
	if entryIndex < 0 || entryIndex >= len(e.story.Entries) {
		return
	}

	delta := participant.SetVote(entryIndex, vote)
	if delta == 0 {
		return
	}
	score, err := e.story.VoteAdjust(entryIndex, delta)
	if err != nil {
		return
	}

	e.queuePacket(domain.NewPacket(domain.PacketVote, domain.VotePayload{
		EntryIndex: entryIndex,
		Score:      score,
	}))
}

// Composing handles `*` packets: update and fan out in-progress text
func (e *Engine) Composing(handle, raw string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	participant, ok := e.participants[handle]
	if !ok {
		return
	}
	participant.Composing = domain.CleanComposing(raw)

	e.queuePacket(domain.NewPacket(domain.PacketComposing, domain.ComposingPayload{
		Mode:  e.phase.Mode(),
		Users: e.composingListLocked(),
	}))
}

// submitTitleWordLocked handles a word during TITLING: only eligible
// titlers may contribute, one word each.
func (e *Engine) submitTitleWordLocked(participant *domain.Participant, word string) error {
	if !e.story.ConsumeTitler(participant.StableID) {
		return domain.ErrNotEligible
	}

	entry := domain.NewWordEntry(word, participant.StableID)
	e.story.AppendTitle(entry)
	e.queuePacket(domain.NewPacket(domain.PacketTitleWord, domain.TitleWordPayload{Entry: entry}))

	if len(e.story.EligibleTitlers) == 0 {
		e.beginCooldownLocked()
	}
	return nil
}

// beginTitlingLocked freezes the story, ranks the top contributors and
// arms the title deadline timer with the current generation.
func (e *Engine) beginTitlingLocked() {
	if !e.phase.CanTransitionTo(domain.PhaseTitling) {
		return
	}
	e.phase = domain.PhaseTitling
	e.story.EligibleTitlers = e.story.TopContributors(domain.TitlerCount)
	e.titleDeadline = time.Now().Add(e.settings.TitleDuration)

	e.queuePacket(domain.NewPacket(domain.PacketTitling, domain.TitlingPayload{
		EligibleTitlers: e.story.EligibleTitlers,
		DeadlineMs:      e.titleDeadline.UnixMilli(),
	}))
	e.logger.Info("titling started", "storyIndex", e.story.Index, "titlers", e.story.EligibleTitlers)

	generation := e.generation
	time.AfterFunc(e.settings.TitleDuration, func() {
		e.titleDeadlineFired(generation)
	})
}

// titleDeadlineFired is the titling deadline timer body. The captured
// generation neutralizes stale timers: if finalization has already
// begun for this story, the live counter has moved on and the timer
// must not touch anything.
func (e *Engine) titleDeadlineFired(generation int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation || e.phase != domain.PhaseTitling {
		return
	}
	e.logger.Info("title deadline reached", "storyIndex", e.story.Index, "titleWords", len(e.story.TitleEntries))
	e.beginCooldownLocked()
}

// beginCooldownLocked enters COOLDOWN and launches the finalization
// pipeline on a snapshot. The generation increments here, which is
// what guarantees at most one pipeline run per story.
func (e *Engine) beginCooldownLocked() {
	if !e.phase.CanTransitionTo(domain.PhaseCooldown) {
		return
	}
	e.phase = domain.PhaseCooldown
	e.generation++

	snapshot := e.story.Snapshot()
	generation := e.generation

	go e.runFinalization(snapshot, generation)
}

// runFinalization drives the pipeline off the engine goroutine, then
// publishes the result and schedules the reset.
func (e *Engine) runFinalization(snapshot domain.StorySnapshot, generation int64) {
	result := e.finalizer.Finalize(context.Background(), snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation || e.phase != domain.PhaseCooldown {
		return
	}

	activateAt := time.Now().Add(result.Total)
	e.storyActivateAt = activateAt

	e.queuePacket(domain.NewPacket(domain.PacketFinalized, FinalizedPayload{
		StoryIndex:   snapshot.Index + 1,
		ActivateAtMs: activateAt.UnixMilli(),
		Title:        result.TitleAsset,
		Story:        result.StoryAsset,
	}))
	e.logger.Info("story finalized", "storyIndex", snapshot.Index, "presentation", result.Total)

	time.AfterFunc(result.Total, func() {
		e.resetStory(generation, snapshot.Index+1)
	})
}

// resetStory is the COOLDOWN exit: clear the ledger, bump the index
// and reopen for writing. Guarded by generation and phase like every
// other resumed callback.
func (e *Engine) resetStory(generation, nextIndex int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation || e.phase != domain.PhaseCooldown {
		return
	}

	e.story = domain.NewStory(nextIndex)
	e.titleDeadline = time.Time{}
	for _, participant := range e.participants {
		participant.ClearVotes()
	}
	e.phase = domain.PhaseActive
	e.logger.Info("story reset", "storyIndex", nextIndex)
}

// Stats is a small observability snapshot for the HTTP layer
type Stats struct {
	Participants int          `json:"participants"`
	Addresses    int          `json:"addresses"`
	Waitlisted   int          `json:"waitlisted"`
	StoryIndex   int64        `json:"storyIndex"`
	StoryLength  int          `json:"storyLength"`
	Phase        domain.Phase `json:"phase"`
	IndexSynced  bool         `json:"indexSynced"`
}

// GetStats returns current engine statistics
func (e *Engine) GetStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		Participants: len(e.participants),
		Addresses:    e.registry.AddressCount(),
		Waitlisted:   e.waitlist.Len(),
		StoryIndex:   e.story.Index,
		StoryLength:  len(e.story.Entries),
		Phase:        e.phase,
		IndexSynced:  e.indexSynced,
	}
}

// Close shuts down the engine and all connections
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.done)

	conns := make([]Conn, 0, len(e.conns))
	for _, conn := range e.conns {
		conns = append(conns, conn)
	}
	e.conns = make(map[string]Conn)
	e.participants = make(map[string]*domain.Participant)
	e.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// rejectLocked sends an `r` packet to one connection
func (e *Engine) rejectLocked(handle string, code domain.RejectCode, extra any) {
	conn, ok := e.conns[handle]
	if !ok {
		return
	}
	if err := conn.Send(domain.NewPacket(domain.PacketReject, domain.RejectPayload{Code: code, Extra: extra})); err != nil {
		e.logger.Debug("reject send failed", "handle", handle, "error", err)
	}
}

// composingListLocked builds the [stableId, text] list for `A` and `c`
func (e *Engine) composingListLocked() []domain.ComposingInfo {
	users := make([]domain.ComposingInfo, 0, len(e.participants))
	for _, participant := range e.participants {
		users = append(users, domain.ComposingInfo{
			StableID: participant.StableID,
			Text:     participant.Composing,
		})
	}
	return users
}

// queuePacket adds a packet to the broadcast queue
func (e *Engine) queuePacket(packet domain.Packet) {
	select {
	case e.packets <- packet:
	default:
		e.logger.Warn("broadcast queue full, dropping packet", "type", packet.Type)
	}
}

// broadcastLoop fans queued packets out to every connection
func (e *Engine) broadcastLoop() {
	for {
		select {
		case <-e.done:
			return
		case packet := <-e.packets:
			e.mu.Lock()
			conns := make([]Conn, 0, len(e.conns))
			for _, conn := range e.conns {
				conns = append(conns, conn)
			}
			e.mu.Unlock()

			for _, conn := range conns {
				if err := conn.Send(packet); err != nil {
					e.logger.Debug("broadcast send failed", "type", packet.Type, "error", err)
				}
			}
		}
	}
}

// purgeLoop periodically frees identity reservations for idle
// addresses. This is the only mechanism bounding registry memory.
func (e *Engine) purgeLoop() {
	ticker := time.NewTicker(e.settings.IdentityPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.mu.Lock()
			e.registry.PurgeExpired(e.settings.IdentityMaxIdle)
			e.mu.Unlock()
		}
	}
}

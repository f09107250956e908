package domain

import "time"

// slot binds a stable id to at most one live connection from an
// address. A slot with an empty handle is vacant: its connection went
// away but the identity reservation persists until purged.
type slot struct {
	stableID int64
	handle   string
	lastSeen time.Time
}

// addressSession is the per-origin-address record of identity slots
type addressSession struct {
	slots []slot
}

// Registry maps transient connection handles to stable participant
// identities, recovering identity across reconnects from the same
// origin address.
//
// Recovery is best-effort by design: the first vacant slot for an
// address wins, so when several people share an address (NAT) a
// reconnecting participant may inherit a housemate's stable id rather
// than their own. That ambiguity is inherent to address-based recovery
// and is deliberately not papered over.
type Registry struct {
	sessions map[string]*addressSession
	byHandle map[string]string // handle -> addr, for release
	nextID   int64
}

// NewRegistry creates an empty identity registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*addressSession),
		byHandle: make(map[string]string),
	}
}

// Resolve binds a connection handle to a stable id. A known address
// with a vacant slot rebinds that slot; otherwise a fresh id and slot
// are allocated.
func (r *Registry) Resolve(handle, addr string) int64 {
	r.byHandle[handle] = addr

	session, ok := r.sessions[addr]
	if !ok {
		session = &addressSession{}
		r.sessions[addr] = session
	}

	now := time.Now()
	for i := range session.slots {
		if session.slots[i].handle == "" {
			session.slots[i].handle = handle
			session.slots[i].lastSeen = now
			return session.slots[i].stableID
		}
	}

	r.nextID++
	session.slots = append(session.slots, slot{
		stableID: r.nextID,
		handle:   handle,
		lastSeen: now,
	})
	return r.nextID
}

// Release marks the handle's slot vacant. The slot and its stable id
// reservation survive until purged.
func (r *Registry) Release(handle string) {
	addr, ok := r.byHandle[handle]
	if !ok {
		return
	}
	delete(r.byHandle, handle)

	session, ok := r.sessions[addr]
	if !ok {
		return
	}
	for i := range session.slots {
		if session.slots[i].handle == handle {
			session.slots[i].handle = ""
			session.slots[i].lastSeen = time.Now()
			return
		}
	}
}

// PurgeExpired deletes vacant slots idle longer than maxIdle for every
// address with no live connections, and forgets addresses left with no
// slots. This is the only mechanism that frees identity reservations.
func (r *Registry) PurgeExpired(maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)
	for addr, session := range r.sessions {
		if session.hasLive() {
			continue
		}
		kept := session.slots[:0]
		for _, s := range session.slots {
			if s.lastSeen.After(cutoff) {
				kept = append(kept, s)
			}
		}
		session.slots = kept
		if len(session.slots) == 0 {
			delete(r.sessions, addr)
		}
	}
}

// AddressCount returns how many origin addresses are being tracked
func (r *Registry) AddressCount() int {
	return len(r.sessions)
}

func (s *addressSession) hasLive() bool {
	for _, sl := range s.slots {
		if sl.handle != "" {
			return true
		}
	}
	return false
}

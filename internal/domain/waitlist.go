package domain

// WaitlistEntry tracks how many more accepted submissions (from anyone)
// must pass before a participant may submit again.
type WaitlistEntry struct {
	Handle    string `json:"handle"`
	Remaining int    `json:"remaining"`
}

// Waitlist is the per-participant submission throttle. After every
// accepted submission each queued participant moves one step closer to
// eligibility; whether the submitter itself gets queued depends on the
// population tier table.
type Waitlist struct {
	entries []WaitlistEntry
	tiers   []int
}

// NewWaitlist creates a waitlist with the given population tier table.
// Each tier is a population threshold; the penalty applied to an
// accepted submitter equals the number of thresholds the current
// population meets.
func NewWaitlist(tiers []int) *Waitlist {
	return &Waitlist{tiers: tiers}
}

// Status returns the remaining wait for a handle, or 0 if not queued
func (w *Waitlist) Status(handle string) int {
	for _, entry := range w.entries {
		if entry.Handle == handle {
			return entry.Remaining
		}
	}
	return 0
}

// Admit decides whether the handle may submit right now. A queued
// participant is refused with its remaining count, untouched. An
// accepted submission advances everyone already queued by one step and
// may queue the submitter per the tier table for the given population.
func (w *Waitlist) Admit(handle string, population int) error {
	if w.Status(handle) > 0 {
		return ErrWaitlisted
	}

	// Everyone queued is one accepted submission closer.
	kept := w.entries[:0]
	for _, entry := range w.entries {
		entry.Remaining--
		if entry.Remaining > 0 {
			kept = append(kept, entry)
		}
	}
	w.entries = kept

	penalty := w.penaltyFor(population)
	if penalty > 0 {
		w.entries = append(w.entries, WaitlistEntry{Handle: handle, Remaining: penalty})
	}
	return nil
}

// Len returns how many participants are currently queued
func (w *Waitlist) Len() int {
	return len(w.entries)
}

func (w *Waitlist) penaltyFor(population int) int {
	penalty := 0
	for _, threshold := range w.tiers {
		if population >= threshold {
			penalty++
		}
	}
	return penalty
}

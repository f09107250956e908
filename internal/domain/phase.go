package domain

// Phase represents the current phase of the shared story
type Phase string

const (
	PhaseActive   Phase = "ACTIVE"   // Accepting story words
	PhaseTitling  Phase = "TITLING"  // Top contributors submitting title words
	PhaseCooldown Phase = "COOLDOWN" // Story finalized, narration playing, awaiting reset
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// Mode returns the compact wire representation of the phase (0/1/2)
func (p Phase) Mode() int {
	switch p {
	case PhaseTitling:
		return 1
	case PhaseCooldown:
		return 2
	default:
		return 0
	}
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseActive:   {PhaseTitling},
		PhaseTitling:  {PhaseCooldown},
		PhaseCooldown: {PhaseActive}, // Reset after the narration window
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}

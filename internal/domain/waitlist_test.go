package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitlist_NoPenaltyBelowTiers(t *testing.T) {
	w := NewWaitlist([]int{4, 8, 12})

	require.NoError(t, w.Admit("a", 3))
	assert.Equal(t, 0, w.Status("a"))
	require.NoError(t, w.Admit("a", 3))
	assert.Equal(t, 0, w.Len())
}

func TestWaitlist_PenaltyScalesWithPopulation(t *testing.T) {
	w := NewWaitlist([]int{4, 8, 12})

	require.NoError(t, w.Admit("a", 4))
	assert.Equal(t, 1, w.Status("a"))

	require.NoError(t, w.Admit("b", 9))
	assert.Equal(t, 2, w.Status("b"))

	require.NoError(t, w.Admit("c", 50))
	assert.Equal(t, 3, w.Status("c"))
}

// The scenario from the throttle contract: a participant waiting on 2
// submissions is refused twice with a decreasing count, then admitted.
func TestWaitlist_DecrementPerAcceptedSubmission(t *testing.T) {
	w := NewWaitlist([]int{1, 2})

	// Population 5 meets both tiers: "a" waits 2 submissions.
	require.NoError(t, w.Admit("a", 5))
	require.Equal(t, 2, w.Status("a"))

	// Own attempts are refused without mutating anything.
	assert.ErrorIs(t, w.Admit("a", 5), ErrWaitlisted)
	assert.Equal(t, 2, w.Status("a"))

	// Someone else's accepted submission moves "a" one step closer.
	require.NoError(t, w.Admit("b", 0))
	assert.Equal(t, 1, w.Status("a"))

	assert.ErrorIs(t, w.Admit("a", 5), ErrWaitlisted)
	assert.Equal(t, 1, w.Status("a"))

	// One more acceptance clears "a" entirely.
	require.NoError(t, w.Admit("c", 0))
	assert.Equal(t, 0, w.Status("a"))

	require.NoError(t, w.Admit("a", 0))
}

func TestWaitlist_EntryRemovedExactlyAtZero(t *testing.T) {
	w := NewWaitlist([]int{1})

	require.NoError(t, w.Admit("a", 1))
	assert.Equal(t, 1, w.Len())

	require.NoError(t, w.Admit("b", 0))
	assert.Equal(t, 0, w.Len())
}

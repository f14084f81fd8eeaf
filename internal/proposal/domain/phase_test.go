package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseStatusTransitions(t *testing.T) {
	assert.True(t, PhasePending.CanTransitionTo(PhaseInProgress))
	assert.True(t, PhasePending.CanTransitionTo(PhaseCompleted))
	assert.True(t, PhaseInProgress.CanTransitionTo(PhaseCompleted))

	// 只允许前向推进
	assert.False(t, PhaseInProgress.CanTransitionTo(PhasePending))
	assert.False(t, PhaseCompleted.CanTransitionTo(PhaseInProgress))
	assert.False(t, PhaseCompleted.CanTransitionTo(PhasePending))
	assert.False(t, PhaseCompleted.CanTransitionTo(PhaseCompleted))
}

func TestCompletedOnTime(t *testing.T) {
	deadline := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	p := &Phase{EndDate: deadline}

	assert.True(t, p.CompletedOnTime(deadline.AddDate(0, 0, -1)))
	// 恰好在截止时刻验收算按期
	assert.True(t, p.CompletedOnTime(deadline))
	assert.False(t, p.CompletedOnTime(deadline.Add(time.Second)))
}

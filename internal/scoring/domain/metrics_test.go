package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCredit(t *testing.T) {
	tests := []struct {
		name     string
		accepted int
		onTime   int
		quality  int
		want     int
	}{
		{"零值机构", 0, 0, 0, 0},
		{"组合计分", 2, 1, 0, 25},
		{"仅采纳提案", 3, 0, 0, 30},
		{"仅按期阶段", 0, 4, 0, 20},
		{"含质量分", 1, 2, 3, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateCredit(tt.accepted, tt.onTime, tt.quality))
		})
	}
}

func TestRecalculate(t *testing.T) {
	m := NewAgencyMetrics(7)
	m.NoOfAcceptedProposals = 2
	m.CompletedPhaseOnTime = 1
	assert.False(t, m.Consistent())

	m.Recalculate()
	assert.Equal(t, 25, m.Credit)
	assert.True(t, m.Consistent())
}

func TestNewAgencyMetricsZeroValues(t *testing.T) {
	m := NewAgencyMetrics(42)
	assert.Equal(t, uint(42), m.AgencyID)
	assert.Zero(t, m.Credit)
	assert.Zero(t, m.NoOfAcceptedProposals)
	assert.Zero(t, m.CompletedPhaseOnTime)
	assert.Zero(t, m.Quality)
	assert.True(t, m.Consistent())
}

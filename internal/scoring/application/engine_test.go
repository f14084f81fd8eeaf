package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	proposaldomain "github.com/wyfcoding/attestation/internal/proposal/domain"
	"github.com/wyfcoding/attestation/internal/scoring/domain"
)

type fakeMetricsRepo struct {
	rows map[uint]*domain.AgencyMetrics
}

func newFakeMetricsRepo() *fakeMetricsRepo {
	return &fakeMetricsRepo{rows: make(map[uint]*domain.AgencyMetrics)}
}

func (r *fakeMetricsRepo) EnsureAgency(_ context.Context, agencyID uint) error {
	if _, ok := r.rows[agencyID]; !ok {
		r.rows[agencyID] = domain.NewAgencyMetrics(agencyID)
	}
	return nil
}

func (r *fakeMetricsRepo) GetByAgency(_ context.Context, agencyID uint) (*domain.AgencyMetrics, error) {
	m, ok := r.rows[agencyID]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMetricsRepo) IncrementAcceptedProposals(ctx context.Context, agencyID uint) (*domain.AgencyMetrics, error) {
	r.rows[agencyID].NoOfAcceptedProposals++
	r.rows[agencyID].Recalculate()
	return r.GetByAgency(ctx, agencyID)
}

func (r *fakeMetricsRepo) IncrementOnTimePhases(ctx context.Context, agencyID uint) (*domain.AgencyMetrics, error) {
	r.rows[agencyID].CompletedPhaseOnTime++
	r.rows[agencyID].Recalculate()
	return r.GetByAgency(ctx, agencyID)
}

func (r *fakeMetricsRepo) SetQuality(ctx context.Context, agencyID uint, quality int) (*domain.AgencyMetrics, error) {
	r.rows[agencyID].Quality = quality
	r.rows[agencyID].Recalculate()
	return r.GetByAgency(ctx, agencyID)
}

type fakeResolver struct {
	proposals map[uint]*proposaldomain.Proposal
}

func (f *fakeResolver) GetByID(_ context.Context, id uint) (*proposaldomain.Proposal, error) {
	return f.proposals[id], nil
}

func newEngine(proposals map[uint]*proposaldomain.Proposal) (*CreditScoringEngine, *fakeMetricsRepo) {
	repo := newFakeMetricsRepo()
	return NewCreditScoringEngine(repo, nil, &fakeResolver{proposals: proposals}, nil), repo
}

func TestOnProposalAccepted(t *testing.T) {
	ctx := context.Background()
	engine, repo := newEngine(map[uint]*proposaldomain.Proposal{
		1: {ID: 1, ProjectID: 10, AgencyID: 5},
	})

	require.NoError(t, engine.OnProposalAccepted(ctx, 1))

	m, err := repo.GetByAgency(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 1, m.NoOfAcceptedProposals)
	assert.Equal(t, 10, m.Credit)
}

func TestOnProposalAcceptedRepeatAccumulates(t *testing.T) {
	ctx := context.Background()
	engine, repo := newEngine(map[uint]*proposaldomain.Proposal{
		1: {ID: 1, AgencyID: 5},
	})

	require.NoError(t, engine.OnProposalAccepted(ctx, 1))
	require.NoError(t, engine.OnProposalAccepted(ctx, 1))

	m, _ := repo.GetByAgency(ctx, 5)
	assert.Equal(t, 2, m.NoOfAcceptedProposals)
	assert.Equal(t, 20, m.Credit)
}

func TestOnProposalAcceptedMissingProposalIsNoOp(t *testing.T) {
	ctx := context.Background()
	engine, repo := newEngine(map[uint]*proposaldomain.Proposal{})

	require.NoError(t, engine.OnProposalAccepted(ctx, 99))
	assert.Empty(t, repo.rows)
}

func TestOnPhaseCompletedLateIsNoOp(t *testing.T) {
	ctx := context.Background()
	engine, repo := newEngine(map[uint]*proposaldomain.Proposal{
		1: {ID: 1, AgencyID: 5},
	})

	require.NoError(t, engine.OnPhaseCompleted(ctx, 1, false))
	assert.Empty(t, repo.rows)
}

func TestOnPhaseCompletedOnTime(t *testing.T) {
	ctx := context.Background()
	engine, repo := newEngine(map[uint]*proposaldomain.Proposal{
		1: {ID: 1, AgencyID: 5},
	})

	require.NoError(t, engine.OnPhaseCompleted(ctx, 1, true))

	m, _ := repo.GetByAgency(ctx, 5)
	assert.Equal(t, 1, m.CompletedPhaseOnTime)
	assert.Equal(t, 5, m.Credit)
}

func TestInitMetricsPreservesCounters(t *testing.T) {
	ctx := context.Background()
	engine, repo := newEngine(map[uint]*proposaldomain.Proposal{
		1: {ID: 1, AgencyID: 5},
	})

	require.NoError(t, engine.InitMetrics(ctx, 5))
	require.NoError(t, engine.OnProposalAccepted(ctx, 1))
	require.NoError(t, engine.InitMetrics(ctx, 5))

	m, _ := repo.GetByAgency(ctx, 5)
	assert.Equal(t, 1, m.NoOfAcceptedProposals)
	assert.Equal(t, 10, m.Credit)
}

func TestSetQualityRecalculates(t *testing.T) {
	ctx := context.Background()
	engine, _ := newEngine(map[uint]*proposaldomain.Proposal{
		1: {ID: 1, AgencyID: 5},
	})

	require.NoError(t, engine.OnProposalAccepted(ctx, 1))

	m, err := engine.SetQuality(ctx, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Quality)
	assert.Equal(t, 16, m.Credit)
	assert.True(t, m.Consistent())
}

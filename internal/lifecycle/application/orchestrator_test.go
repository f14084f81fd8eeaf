package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/attestation/internal/proposal/domain"
)

type fakeProposalRepo struct {
	proposals map[uint]*domain.Proposal
}

func (r *fakeProposalRepo) Save(_ context.Context, p *domain.Proposal) error {
	r.proposals[p.ID] = p
	return nil
}

func (r *fakeProposalRepo) GetByID(_ context.Context, id uint) (*domain.Proposal, error) {
	p, ok := r.proposals[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProposalRepo) ListByProject(_ context.Context, projectID uint) ([]*domain.Proposal, error) {
	var out []*domain.Proposal
	for _, p := range r.proposals {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProposalRepo) UpdateStatus(_ context.Context, id uint, status domain.ProposalStatus) error {
	r.proposals[id].Status = status
	return nil
}

func (r *fakeProposalRepo) RejectSiblings(_ context.Context, projectID, acceptedID uint) error {
	for _, p := range r.proposals {
		if p.ProjectID == projectID && p.ID != acceptedID && p.Status == domain.ProposalPending {
			p.Status = domain.ProposalNotAccepted
		}
	}
	return nil
}

func (r *fakeProposalRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePhaseRepo struct {
	phases map[uint]*domain.Phase
	nextID uint
}

func (r *fakePhaseRepo) SaveBatch(_ context.Context, phases []*domain.Phase) error {
	for _, p := range phases {
		r.nextID++
		p.ID = r.nextID
		r.phases[p.ID] = p
	}
	return nil
}

func (r *fakePhaseRepo) GetByID(_ context.Context, id uint) (*domain.Phase, error) {
	p, ok := r.phases[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePhaseRepo) ListByProposal(_ context.Context, proposalID uint) ([]*domain.Phase, error) {
	var out []*domain.Phase
	for _, p := range r.phases {
		if p.ProposalID == proposalID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePhaseRepo) UpdateStatus(_ context.Context, id uint, status domain.PhaseStatus) error {
	r.phases[id].Status = status
	return nil
}

func (r *fakePhaseRepo) MarkCompleted(_ context.Context, id uint, completedAt time.Time) error {
	r.phases[id].Status = domain.PhaseCompleted
	r.phases[id].CompletedAt = &completedAt
	return nil
}

func (r *fakePhaseRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type scoringCall struct {
	proposalID uint
	onTime     bool
}

type fakeScoring struct {
	accepted  []uint
	completed []scoringCall
}

func (s *fakeScoring) OnProposalAccepted(_ context.Context, proposalID uint) error {
	s.accepted = append(s.accepted, proposalID)
	return nil
}

func (s *fakeScoring) OnPhaseCompleted(_ context.Context, proposalID uint, onTime bool) error {
	s.completed = append(s.completed, scoringCall{proposalID: proposalID, onTime: onTime})
	return nil
}

func newTestOrchestrator(proposals map[uint]*domain.Proposal, phases map[uint]*domain.Phase) (*LifecycleOrchestrator, *fakeProposalRepo, *fakePhaseRepo, *fakeScoring) {
	proposalRepo := &fakeProposalRepo{proposals: proposals}
	phaseRepo := &fakePhaseRepo{phases: phases}
	scoring := &fakeScoring{}
	o := NewLifecycleOrchestrator(proposalRepo, phaseRepo, scoring, nil)
	return o, proposalRepo, phaseRepo, scoring
}

func TestAcceptProposal(t *testing.T) {
	ctx := context.Background()
	o, repo, _, scoring := newTestOrchestrator(map[uint]*domain.Proposal{
		1: {ID: 1, ProjectID: 10, AgencyID: 5, Status: domain.ProposalPending},
		2: {ID: 2, ProjectID: 10, AgencyID: 6, Status: domain.ProposalPending},
		3: {ID: 3, ProjectID: 11, AgencyID: 7, Status: domain.ProposalPending},
	}, map[uint]*domain.Phase{})

	id, err := o.AcceptProposal(ctx, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	assert.Equal(t, domain.ProposalAccepted, repo.proposals[1].Status)
	assert.Equal(t, domain.ProposalNotAccepted, repo.proposals[2].Status)
	// 其他项目的提案不受影响
	assert.Equal(t, domain.ProposalPending, repo.proposals[3].Status)
	assert.Equal(t, []uint{1}, scoring.accepted)
}

func TestAcceptProposalWrongProject(t *testing.T) {
	ctx := context.Background()
	o, repo, _, scoring := newTestOrchestrator(map[uint]*domain.Proposal{
		1: {ID: 1, ProjectID: 10, Status: domain.ProposalPending},
	}, map[uint]*domain.Phase{})

	_, err := o.AcceptProposal(ctx, 99, 1)
	assert.ErrorIs(t, err, ErrProposalNotFound)
	assert.Equal(t, domain.ProposalPending, repo.proposals[1].Status)
	assert.Empty(t, scoring.accepted)
}

func TestRegisterPhases(t *testing.T) {
	ctx := context.Background()
	o, _, phaseRepo, _ := newTestOrchestrator(map[uint]*domain.Proposal{
		1: {ID: 1, ProjectID: 10, AgencyID: 5, Status: domain.ProposalAccepted},
	}, map[uint]*domain.Phase{})

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ids, err := o.RegisterPhases(ctx, RegisterPhasesCommand{
		ProjectID:  10,
		ProposalID: 1,
		Phases: []PhaseInput{
			{Number: "1", Title: "调研", Budget: decimal.NewFromInt(100), StartDate: start, EndDate: start.AddDate(0, 1, 0)},
			{Number: "2", Title: "实施", Budget: decimal.NewFromInt(500), StartDate: start.AddDate(0, 1, 0), EndDate: start.AddDate(0, 3, 0)},
		},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	first, second := phaseRepo.phases[ids[0]], phaseRepo.phases[ids[1]]
	assert.Equal(t, "1", first.Number)
	assert.Equal(t, "2", second.Number)
	assert.Equal(t, domain.PhasePending, first.Status)
	// 从提案继承归属字段
	assert.Equal(t, uint(10), first.ProjectID)
	assert.Equal(t, uint(5), first.AgencyID)
}

func TestRegisterPhasesOnPendingProposal(t *testing.T) {
	ctx := context.Background()
	o, _, _, _ := newTestOrchestrator(map[uint]*domain.Proposal{
		1: {ID: 1, ProjectID: 10, Status: domain.ProposalPending},
	}, map[uint]*domain.Phase{})

	_, err := o.RegisterPhases(ctx, RegisterPhasesCommand{
		ProjectID:  10,
		ProposalID: 1,
		Phases:     []PhaseInput{{Number: "1", Title: "调研"}},
	})
	assert.ErrorIs(t, err, ErrProposalNotAccepted)
}

func TestAcceptPhaseOnTime(t *testing.T) {
	ctx := context.Background()
	deadline := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	o, _, phaseRepo, scoring := newTestOrchestrator(map[uint]*domain.Proposal{
		1: {ID: 1, ProjectID: 10, AgencyID: 5, Status: domain.ProposalAccepted},
	}, map[uint]*domain.Phase{
		100: {ID: 100, ProposalID: 1, ProjectID: 10, AgencyID: 5, Status: domain.PhaseInProgress, EndDate: deadline},
	})
	o.now = func() time.Time { return deadline.AddDate(0, 0, -1) }

	proposalID, err := o.AcceptPhase(ctx, 10, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, uint(1), proposalID)

	assert.Equal(t, domain.PhaseCompleted, phaseRepo.phases[100].Status)
	require.NotNil(t, phaseRepo.phases[100].CompletedAt)
	require.Len(t, scoring.completed, 1)
	assert.True(t, scoring.completed[0].onTime)
}

func TestAcceptPhaseLate(t *testing.T) {
	ctx := context.Background()
	deadline := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	o, _, _, scoring := newTestOrchestrator(map[uint]*domain.Proposal{
		1: {ID: 1, ProjectID: 10, Status: domain.ProposalAccepted},
	}, map[uint]*domain.Phase{
		100: {ID: 100, ProposalID: 1, ProjectID: 10, Status: domain.PhaseInProgress, EndDate: deadline},
	})
	o.now = func() time.Time { return deadline.AddDate(0, 0, 1) }

	_, err := o.AcceptPhase(ctx, 10, 1, 100)
	require.NoError(t, err)

	require.Len(t, scoring.completed, 1)
	assert.False(t, scoring.completed[0].onTime)
}

func TestAcceptPhaseWrongProposal(t *testing.T) {
	ctx := context.Background()
	o, _, phaseRepo, scoring := newTestOrchestrator(map[uint]*domain.Proposal{
		1: {ID: 1, ProjectID: 10, Status: domain.ProposalAccepted},
		2: {ID: 2, ProjectID: 10, Status: domain.ProposalNotAccepted},
	}, map[uint]*domain.Phase{
		100: {ID: 100, ProposalID: 1, ProjectID: 10, Status: domain.PhaseInProgress},
	})

	_, err := o.AcceptPhase(ctx, 10, 2, 100)
	assert.ErrorIs(t, err, ErrPhaseNotFound)
	assert.Equal(t, domain.PhaseInProgress, phaseRepo.phases[100].Status)
	assert.Empty(t, scoring.completed)
}

func TestAcceptPhaseAlreadyCompleted(t *testing.T) {
	ctx := context.Background()
	o, _, _, _ := newTestOrchestrator(map[uint]*domain.Proposal{
		1: {ID: 1, ProjectID: 10, Status: domain.ProposalAccepted},
	}, map[uint]*domain.Phase{
		100: {ID: 100, ProposalID: 1, ProjectID: 10, Status: domain.PhaseCompleted},
	})

	_, err := o.AcceptPhase(ctx, 10, 1, 100)
	assert.ErrorIs(t, err, ErrInvalidPhaseTransition)
}

func TestStartPhase(t *testing.T) {
	ctx := context.Background()
	o, _, phaseRepo, _ := newTestOrchestrator(map[uint]*domain.Proposal{
		1: {ID: 1, ProjectID: 10, Status: domain.ProposalAccepted},
	}, map[uint]*domain.Phase{
		100: {ID: 100, ProposalID: 1, ProjectID: 10, Status: domain.PhasePending},
	})

	require.NoError(t, o.StartPhase(ctx, 10, 1, 100))
	assert.Equal(t, domain.PhaseInProgress, phaseRepo.phases[100].Status)

	// 已进行中的阶段不能再次启动
	err := o.StartPhase(ctx, 10, 1, 100)
	assert.ErrorIs(t, err, ErrInvalidPhaseTransition)
}

package handler

import (
	"context"

	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/stretchr/testify/mock"
)

// MockCatalog implements JobCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) CreateJob(ctx context.Context, job domain.Job) (domain.Job, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockCatalog) ListJobs(ctx context.Context) ([]domain.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockCatalog) ListJobsByOwner(ctx context.Context, email string) ([]domain.Job, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockCatalog) GetJob(ctx context.Context, id string) (domain.Job, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockCatalog) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockCatalog) DeleteJob(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalog) SearchJobs(ctx context.Context, query domain.JobQuery) ([]domain.Job, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockCatalog) CountJobs(ctx context.Context, query domain.JobQuery) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

// MockLedger implements BidLedger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) PlaceBid(ctx context.Context, bid domain.Bid) (domain.Bid, error) {
	args := m.Called(ctx, bid)
	return args.Get(0).(domain.Bid), args.Error(1)
}

func (m *MockLedger) ListBids(ctx context.Context, email string, asBuyer bool) ([]domain.Bid, error) {
	args := m.Called(ctx, email, asBuyer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bid), args.Error(1)
}

func (m *MockLedger) ListBidsByOwner(ctx context.Context, email string) ([]domain.Bid, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bid), args.Error(1)
}

func (m *MockLedger) UpdateBidStatus(ctx context.Context, id, status string) (domain.Bid, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(domain.Bid), args.Error(1)
}

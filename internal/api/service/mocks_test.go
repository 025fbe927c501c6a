package service

import (
	"context"

	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/model"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/storage"
	"github.com/istiaq-ahsan/soloSphere-server/shared/events"
	"github.com/stretchr/testify/mock"
)

// MockJobRepo implements JobRepository
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) CreateJob(ctx context.Context, job *model.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepo) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *MockJobRepo) ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *MockJobRepo) CountJobs(ctx context.Context, filter storage.JobFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockJobRepo) UpsertJob(ctx context.Context, jobID string, patch domain.JobPatch) (*model.Job, error) {
	args := m.Called(ctx, jobID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *MockJobRepo) DeleteJob(ctx context.Context, jobID string) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBidRepo implements BidRepository
type MockBidRepo struct {
	mock.Mock
}

func (m *MockBidRepo) PlaceBid(ctx context.Context, bid *model.Bid) error {
	args := m.Called(ctx, bid)
	return args.Error(0)
}

func (m *MockBidRepo) ListBids(ctx context.Context, filter storage.BidFilter) ([]model.Bid, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Bid), args.Error(1)
}

func (m *MockBidRepo) UpdateBidStatus(ctx context.Context, bidID, status string) (*model.Bid, error) {
	args := m.Called(ctx, bidID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bid), args.Error(1)
}

// MockPublisher implements EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evt events.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

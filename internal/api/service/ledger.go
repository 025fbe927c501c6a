package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/model"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/storage"
	"github.com/istiaq-ahsan/soloSphere-server/shared/events"
)

// Ledger owns bid records and the bid counter on their jobs
type Ledger struct {
	repo   BidRepository
	pub    EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewLedger(repo BidRepository, pub EventPublisher, logger *slog.Logger) *Ledger {
	return &Ledger{
		repo:   repo,
		pub:    pub,
		logger: logger,
		now:    time.Now,
	}
}

// PlaceBid records bid and bumps the job's bid counter atomically.
// It fails with domain.ErrDuplicateBid when the bidder already bid on the job
// and with domain.ErrJobNotFound when the job does not exist.
func (l *Ledger) PlaceBid(ctx context.Context, bid domain.Bid) (domain.Bid, error) {
	if bid.Email == "" || bid.JobID == "" {
		return domain.Bid{}, fmt.Errorf("%w: email and job id are required", domain.ErrValidation)
	}

	bid.ID = uuid.New().String()
	bid.CreatedAt = l.now().UTC()
	if bid.Status == "" {
		bid.Status = domain.BidStatusPending
	}

	row := model.BidFromDomain(bid)
	if err := l.repo.PlaceBid(ctx, &row); err != nil {
		return domain.Bid{}, err
	}

	l.logger.Info("Bid placed",
		slog.String("bid_id", row.ID),
		slog.String("job_id", row.JobID),
		slog.String("email", row.Email),
	)

	evt := events.New(events.TypeBidPlaced)
	evt.JobID = row.JobID
	evt.BidID = row.ID
	evt.Email = row.Email
	publish(ctx, l.pub, l.logger, evt)

	return row.ToDomain(), nil
}

// ListBidsByBidder returns the bids placed by email
func (l *Ledger) ListBidsByBidder(ctx context.Context, email string) ([]domain.Bid, error) {
	return l.list(ctx, storage.BidFilter{Email: email})
}

// ListBidsByOwner returns the bids received on jobs owned by email
func (l *Ledger) ListBidsByOwner(ctx context.Context, email string) ([]domain.Bid, error) {
	return l.list(ctx, storage.BidFilter{BuyerEmail: email})
}

// ListBids picks the owner view when asBuyer is set, the bidder view otherwise
func (l *Ledger) ListBids(ctx context.Context, email string, asBuyer bool) ([]domain.Bid, error) {
	if asBuyer {
		return l.ListBidsByOwner(ctx, email)
	}
	return l.ListBidsByBidder(ctx, email)
}

func (l *Ledger) list(ctx context.Context, filter storage.BidFilter) ([]domain.Bid, error) {
	rows, err := l.repo.ListBids(ctx, filter)
	if err != nil {
		return nil, err
	}
	return model.BidsToDomain(rows), nil
}

// UpdateBidStatus replaces the bid status. Any label and any transition is
// accepted.
func (l *Ledger) UpdateBidStatus(ctx context.Context, id, status string) (domain.Bid, error) {
	if status == "" {
		return domain.Bid{}, fmt.Errorf("%w: status is required", domain.ErrValidation)
	}

	row, err := l.repo.UpdateBidStatus(ctx, id, status)
	if err != nil {
		return domain.Bid{}, err
	}

	l.logger.Info("Bid status updated",
		slog.String("bid_id", id),
		slog.String("status", status),
	)

	evt := events.New(events.TypeBidStatusUpdated)
	evt.JobID = row.JobID
	evt.BidID = row.ID
	evt.Status = row.Status
	publish(ctx, l.pub, l.logger, evt)

	return row.ToDomain(), nil
}

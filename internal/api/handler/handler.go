package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/guard"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/session"
)

// JobCatalog is implemented by *service.Catalog
type JobCatalog interface {
	CreateJob(ctx context.Context, job domain.Job) (domain.Job, error)
	ListJobs(ctx context.Context) ([]domain.Job, error)
	ListJobsByOwner(ctx context.Context, email string) ([]domain.Job, error)
	GetJob(ctx context.Context, id string) (domain.Job, error)
	UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error)
	DeleteJob(ctx context.Context, id string) (int64, error)
	SearchJobs(ctx context.Context, query domain.JobQuery) ([]domain.Job, error)
	CountJobs(ctx context.Context, query domain.JobQuery) (int, error)
}

// BidLedger is implemented by *service.Ledger
type BidLedger interface {
	PlaceBid(ctx context.Context, bid domain.Bid) (domain.Bid, error)
	ListBids(ctx context.Context, email string, asBuyer bool) ([]domain.Bid, error)
	ListBidsByOwner(ctx context.Context, email string) ([]domain.Bid, error)
	UpdateBidStatus(ctx context.Context, id, status string) (domain.Bid, error)
}

// SessionIssuer is implemented by *session.Manager
type SessionIssuer interface {
	Issue(email string) (string, session.Identity, error)
	SetCookie(c *gin.Context, token string)
	ClearCookie(c *gin.Context)
}

// HealthChecker is implemented by *postgresql.Client
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger   *slog.Logger
	Catalog  JobCatalog
	Ledger   BidLedger
	Sessions SessionIssuer
	Guard    *guard.Guard
	Health   HealthChecker
}

// respondError maps domain errors to status codes. Anything unknown is
// logged and reported as a 500 with fallback as message.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrDuplicateBid):
		c.JSON(http.StatusBadRequest, gin.H{"message": domain.ErrDuplicateBid.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusUnauthorized, gin.H{"message": domain.ErrForbidden.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthorized.Error()})
	case errors.Is(err, domain.ErrJobNotFound), errors.Is(err, domain.ErrBidNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		logger.Error(fallback,
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}

// idParam reads a UUID path parameter, writing a 400 when it is malformed.
// The id is returned in canonical form since uuid.Parse also accepts
// urn:uuid: and braced spellings PostgreSQL rejects.
func idParam(c *gin.Context, logger *slog.Logger, name string) (string, bool) {
	id := c.Param(name)
	parsed, err := uuid.Parse(id)
	if err != nil {
		logger.Warn("Invalid id format", slog.String(name, id), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " must be a valid UUID"})
		return "", false
	}
	return parsed.String(), true
}

func badRequest(c *gin.Context, logger *slog.Logger, err error, message string) {
	logger.Warn(message, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

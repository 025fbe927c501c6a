package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/storage"
	"github.com/istiaq-ahsan/soloSphere-server/internal/migrations"
	"github.com/istiaq-ahsan/soloSphere-server/shared/logger"
	"github.com/istiaq-ahsan/soloSphere-server/shared/postgresql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type integrationEnv struct {
	db      *sqlx.DB
	catalog *Catalog
	ledger  *Ledger
}

func setupIntegration(t *testing.T) *integrationEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("solosphere_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewDiscard().Logger
	client := postgresql.NewFromDB(db, &postgresql.Config{}, log)
	require.NoError(t, client.Migrate(ctx, migrations.FS, "."))

	store := storage.NewStorage(db, log)
	return &integrationEnv{
		db:      db,
		catalog: NewCatalog(store, nil, log),
		ledger:  NewLedger(store, nil, log),
	}
}

func TestIntegration_BidLifecycle(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	deadline := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	job, err := env.catalog.CreateJob(ctx, domain.Job{
		Title:    "Fix bug",
		Category: "dev",
		Deadline: &deadline,
		Buyer:    domain.Buyer{Email: "a@x.com"},
	})
	require.NoError(t, err)

	stored, err := env.catalog.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fix bug", stored.Title)
	assert.Equal(t, "a@x.com", stored.Buyer.Email)
	assert.True(t, deadline.Equal(*stored.Deadline))
	assert.Equal(t, 0, stored.BidCount)

	bid, err := env.ledger.PlaceBid(ctx, domain.Bid{JobID: job.ID, Email: "b@x.com", Price: 40})
	require.NoError(t, err)
	assert.Equal(t, domain.BidStatusPending, bid.Status)
	assert.Equal(t, "a@x.com", bid.Buyer.Email)
	assert.Equal(t, "Fix bug", bid.Title)

	stored, err = env.catalog.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.BidCount)

	_, err = env.ledger.PlaceBid(ctx, domain.Bid{JobID: job.ID, Email: "b@x.com", Price: 45})
	assert.ErrorIs(t, err, domain.ErrDuplicateBid)

	stored, err = env.catalog.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.BidCount)

	// both views see the bid
	byBidder, err := env.ledger.ListBids(ctx, "b@x.com", false)
	require.NoError(t, err)
	require.Len(t, byBidder, 1)
	byOwner, err := env.ledger.ListBids(ctx, "a@x.com", true)
	require.NoError(t, err)
	require.Len(t, byOwner, 1)

	updated, err := env.ledger.UpdateBidStatus(ctx, bid.ID, domain.BidStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.BidStatusInProgress, updated.Status)

	_, err = env.ledger.PlaceBid(ctx, domain.Bid{JobID: uuid.NewString(), Email: "b@x.com"})
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	// deleting the job keeps its bids
	deleted, err := env.catalog.DeleteJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = env.catalog.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	byBidder, err = env.ledger.ListBidsByBidder(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Len(t, byBidder, 1)
}

func TestIntegration_SearchJobs(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	fix, err := env.catalog.CreateJob(ctx, domain.Job{Title: "Fix bug", Category: "dev", Deadline: &late, Buyer: domain.Buyer{Email: "a@x.com"}})
	require.NoError(t, err)
	logo, err := env.catalog.CreateJob(ctx, domain.Job{Title: "Logo refresh", Category: "marketing", Deadline: &early, Buyer: domain.Buyer{Email: "a@x.com"}})
	require.NoError(t, err)
	_, err = env.catalog.CreateJob(ctx, domain.Job{Title: "100% uptime", Category: "ops", Buyer: domain.Buyer{Email: "z@x.com"}})
	require.NoError(t, err)

	for _, search := range []string{"Fix", "fix", "FIX B"} {
		jobs, err := env.catalog.SearchJobs(ctx, domain.JobQuery{Search: search})
		require.NoError(t, err)
		require.Len(t, jobs, 1, search)
		assert.Equal(t, fix.ID, jobs[0].ID)
	}

	jobs, err := env.catalog.SearchJobs(ctx, domain.JobQuery{Category: "design"})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// % is matched literally
	jobs, err = env.catalog.SearchJobs(ctx, domain.JobQuery{Search: "0%"})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	jobs, err = env.catalog.SearchJobs(ctx, domain.JobQuery{Search: "o", Category: "dev"})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	jobs, err = env.catalog.SearchJobs(ctx, domain.JobQuery{Sort: domain.SortAsc})
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, logo.ID, jobs[0].ID)
	assert.Equal(t, fix.ID, jobs[1].ID)

	jobs, err = env.catalog.SearchJobs(ctx, domain.JobQuery{Sort: domain.SortDesc, Page: 1, Size: 1})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, fix.ID, jobs[0].ID)

	count, err := env.catalog.CountJobs(ctx, domain.JobQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	owned, err := env.catalog.ListJobsByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestIntegration_UpdateJobUpserts(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	id := uuid.NewString()
	title := "Brand new"
	email := "a@x.com"

	created, err := env.catalog.UpdateJob(ctx, id, domain.JobPatch{Title: &title, BuyerEmail: &email})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, "Brand new", created.Title)
	assert.Equal(t, 0, created.BidCount)

	_, err = env.ledger.PlaceBid(ctx, domain.Bid{JobID: id, Email: "b@x.com"})
	require.NoError(t, err)

	category := "dev"
	merged, err := env.catalog.UpdateJob(ctx, id, domain.JobPatch{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "Brand new", merged.Title, "unspecified fields are kept")
	assert.Equal(t, "dev", merged.Category)
	assert.Equal(t, "a@x.com", merged.Buyer.Email)
	assert.Equal(t, 1, merged.BidCount)
}

func TestIntegration_ConcurrentDuplicateBids(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	job, err := env.catalog.CreateJob(ctx, domain.Job{Title: "Race", Buyer: domain.Buyer{Email: "a@x.com"}})
	require.NoError(t, err)

	const attempts = 10
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
		others     []error
	)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			_, err := env.ledger.PlaceBid(ctx, domain.Bid{JobID: job.ID, Email: "b@x.com", Price: 10})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateBid):
				duplicates++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)

	stored, err := env.catalog.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.BidCount)

	var bidRecords int
	require.NoError(t, env.db.GetContext(ctx, &bidRecords, `SELECT COUNT(*) FROM bids WHERE job_id = $1`, job.ID))
	assert.Equal(t, 1, bidRecords)
}

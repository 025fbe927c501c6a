package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/dto"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/guard"
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger  *slog.Logger
	catalog JobCatalog
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:  deps.Logger,
		catalog: deps.Catalog,
	}
}

// CreateJob handles POST /add-job
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err, "Invalid request body")
		return
	}

	job, err := req.ToDomain()
	if err != nil {
		respondError(c, h.logger, err, "Failed to create job")
		return
	}

	created, err := h.catalog.CreateJob(c.Request.Context(), job)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create job")
		return
	}

	c.JSON(http.StatusOK, dto.InsertResponse{InsertedID: created.ID})
}

// ListJobs handles GET /jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.catalog.ListJobs(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to list jobs")
		return
	}

	c.JSON(http.StatusOK, dto.JobsFromDomain(jobs))
}

// ListOwnerJobs handles GET /jobs/:email. The route is guarded so the
// session identity equals :email.
func (h *JobHandler) ListOwnerJobs(c *gin.Context) {
	jobs, err := h.catalog.ListJobsByOwner(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to list jobs")
		return
	}

	c.JSON(http.StatusOK, dto.JobsFromDomain(jobs))
}

// GetJob handles GET /job/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := idParam(c, h.logger, "id")
	if !ok {
		return
	}

	job, err := h.catalog.GetJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get job")
		return
	}

	c.JSON(http.StatusOK, dto.JobFromDomain(job))
}

// UpdateJob handles PUT /update-job/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := idParam(c, h.logger, "id")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err, "Invalid request body")
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		respondError(c, h.logger, err, "Failed to update job")
		return
	}

	job, err := h.catalog.UpdateJob(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update job")
		return
	}

	c.JSON(http.StatusOK, dto.JobFromDomain(job))
}

// DeleteJob handles DELETE /job/:id. Only the job's buyer may delete it.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := idParam(c, h.logger, "id")
	if !ok {
		return
	}

	identity, ok := guard.IdentityFrom(c)
	if !ok {
		respondError(c, h.logger, domain.ErrUnauthorized, "Failed to delete job")
		return
	}

	job, err := h.catalog.GetJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete job")
		return
	}

	if err := guard.CheckOwner(identity, job.Buyer.Email); err != nil {
		h.logger.Warn("Job delete rejected",
			slog.String("job_id", id),
			slog.String("email", identity.Email),
		)
		respondError(c, h.logger, err, "Failed to delete job")
		return
	}

	deleted, err := h.catalog.DeleteJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete job")
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{DeletedCount: deleted})
}

// SearchJobs handles GET /all-jobs
func (h *JobHandler) SearchJobs(c *gin.Context) {
	var req dto.SearchJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, h.logger, err, "Invalid query parameters")
		return
	}

	jobs, err := h.catalog.SearchJobs(c.Request.Context(), req.ToQuery())
	if err != nil {
		respondError(c, h.logger, err, "Failed to search jobs")
		return
	}

	c.JSON(http.StatusOK, dto.JobsFromDomain(jobs))
}

// CountJobs handles GET /jobs-count
func (h *JobHandler) CountJobs(c *gin.Context) {
	var req dto.SearchJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, h.logger, err, "Invalid query parameters")
		return
	}

	count, err := h.catalog.CountJobs(c.Request.Context(), req.ToQuery())
	if err != nil {
		respondError(c, h.logger, err, "Failed to count jobs")
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

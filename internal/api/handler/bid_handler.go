package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/dto"
)

// BidHandler handles bid-related HTTP requests
type BidHandler struct {
	logger *slog.Logger
	ledger BidLedger
}

func NewBidHandler(deps *Dependencies) *BidHandler {
	return &BidHandler{
		logger: deps.Logger,
		ledger: deps.Ledger,
	}
}

// PlaceBid handles POST /add-bid
func (h *BidHandler) PlaceBid(c *gin.Context) {
	var req dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err, "Invalid request body")
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		badRequest(c, h.logger, err, "jobId must be a valid UUID")
		return
	}
	req.JobID = jobID.String()

	bid, err := req.ToDomain()
	if err != nil {
		respondError(c, h.logger, err, "Failed to place bid")
		return
	}

	placed, err := h.ledger.PlaceBid(c.Request.Context(), bid)
	if err != nil {
		respondError(c, h.logger, err, "Failed to place bid")
		return
	}

	c.JSON(http.StatusOK, dto.InsertResponse{InsertedID: placed.ID})
}

// ListBids handles GET /bids/:email. With ?buyer=true it lists the bids
// received on the caller's jobs instead of the bids the caller placed.
func (h *BidHandler) ListBids(c *gin.Context) {
	var req dto.ListBidsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, h.logger, err, "Invalid query parameters")
		return
	}

	bids, err := h.ledger.ListBids(c.Request.Context(), c.Param("email"), req.Buyer)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list bids")
		return
	}

	c.JSON(http.StatusOK, dto.BidsFromDomain(bids))
}

// ListBidRequests handles GET /bid-requests/:email
func (h *BidHandler) ListBidRequests(c *gin.Context) {
	bids, err := h.ledger.ListBidsByOwner(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to list bid requests")
		return
	}

	c.JSON(http.StatusOK, dto.BidsFromDomain(bids))
}

// UpdateBidStatus handles PATCH /bid-status-update/:id
func (h *BidHandler) UpdateBidStatus(c *gin.Context) {
	id, ok := idParam(c, h.logger, "id")
	if !ok {
		return
	}

	var req dto.UpdateBidStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err, "Invalid request body")
		return
	}

	bid, err := h.ledger.UpdateBidStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update bid status")
		return
	}

	c.JSON(http.StatusOK, dto.BidFromDomain(bid))
}

package dto

import (
	"time"

	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
)

type PlaceBidRequest struct {
	JobID    string  `json:"jobId" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Price    float64 `json:"price"`
	Comment  string  `json:"comment"`
	Deadline string  `json:"deadline"`
	Status   string  `json:"status"`
}

func (r PlaceBidRequest) ToDomain() (domain.Bid, error) {
	deadline, err := ParseDeadline(r.Deadline)
	if err != nil {
		return domain.Bid{}, err
	}

	return domain.Bid{
		JobID:    r.JobID,
		Email:    r.Email,
		Price:    r.Price,
		Comment:  r.Comment,
		Deadline: deadline,
		Status:   r.Status,
	}, nil
}

type ListBidsRequest struct {
	Buyer bool `form:"buyer"`
}

type UpdateBidStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BidDTO struct {
	ID        string     `json:"_id"`
	JobID     string     `json:"jobId"`
	Email     string     `json:"email"`
	Price     float64    `json:"price"`
	Comment   string     `json:"comment"`
	Deadline  *time.Time `json:"deadline"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Buyer     BuyerView  `json:"buyer"`
	Status    string     `json:"status"`
	CreatedAt string     `json:"created_at"`
}

func BidFromDomain(bid domain.Bid) BidDTO {
	return BidDTO{
		ID:        bid.ID,
		JobID:     bid.JobID,
		Email:     bid.Email,
		Price:     bid.Price,
		Comment:   bid.Comment,
		Deadline:  bid.Deadline,
		Title:     bid.Title,
		Category:  bid.Category,
		Buyer:     buyerView(bid.Buyer),
		Status:    bid.Status,
		CreatedAt: bid.CreatedAt.Format(time.RFC3339),
	}
}

func BidsFromDomain(bids []domain.Bid) []BidDTO {
	out := make([]BidDTO, len(bids))
	for i, bid := range bids {
		out[i] = BidFromDomain(bid)
	}
	return out
}

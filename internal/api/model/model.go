package model

import (
	"time"

	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
)

type Job struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Category    string     `db:"category"`
	Description string     `db:"description"`
	Deadline    *time.Time `db:"deadline"`
	MinPrice    float64    `db:"min_price"`
	MaxPrice    float64    `db:"max_price"`
	BuyerEmail  string     `db:"buyer_email"`
	BuyerName   string     `db:"buyer_name"`
	BuyerPhoto  string     `db:"buyer_photo"`
	BidCount    int        `db:"bid_count"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type Bid struct {
	ID         string     `db:"id"`
	JobID      string     `db:"job_id"`
	Email      string     `db:"email"`
	Price      float64    `db:"price"`
	Comment    string     `db:"comment"`
	Deadline   *time.Time `db:"deadline"`
	Title      string     `db:"title"`
	Category   string     `db:"category"`
	BuyerEmail string     `db:"buyer_email"`
	BuyerName  string     `db:"buyer_name"`
	BuyerPhoto string     `db:"buyer_photo"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
}

func (j *Job) ToDomain() domain.Job {
	return domain.Job{
		ID:          j.ID,
		Title:       j.Title,
		Category:    j.Category,
		Description: j.Description,
		Deadline:    j.Deadline,
		MinPrice:    j.MinPrice,
		MaxPrice:    j.MaxPrice,
		Buyer: domain.Buyer{
			Email: j.BuyerEmail,
			Name:  j.BuyerName,
			Photo: j.BuyerPhoto,
		},
		BidCount:  j.BidCount,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

func JobFromDomain(j domain.Job) Job {
	return Job{
		ID:          j.ID,
		Title:       j.Title,
		Category:    j.Category,
		Description: j.Description,
		Deadline:    j.Deadline,
		MinPrice:    j.MinPrice,
		MaxPrice:    j.MaxPrice,
		BuyerEmail:  j.Buyer.Email,
		BuyerName:   j.Buyer.Name,
		BuyerPhoto:  j.Buyer.Photo,
		BidCount:    j.BidCount,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func (b *Bid) ToDomain() domain.Bid {
	return domain.Bid{
		ID:       b.ID,
		JobID:    b.JobID,
		Email:    b.Email,
		Price:    b.Price,
		Comment:  b.Comment,
		Deadline: b.Deadline,
		Title:    b.Title,
		Category: b.Category,
		Buyer: domain.Buyer{
			Email: b.BuyerEmail,
			Name:  b.BuyerName,
			Photo: b.BuyerPhoto,
		},
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}

func BidFromDomain(b domain.Bid) Bid {
	return Bid{
		ID:         b.ID,
		JobID:      b.JobID,
		Email:      b.Email,
		Price:      b.Price,
		Comment:    b.Comment,
		Deadline:   b.Deadline,
		Title:      b.Title,
		Category:   b.Category,
		BuyerEmail: b.Buyer.Email,
		BuyerName:  b.Buyer.Name,
		BuyerPhoto: b.Buyer.Photo,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
	}
}

func JobsToDomain(rows []Job) []domain.Job {
	jobs := make([]domain.Job, len(rows))
	for i := range rows {
		jobs[i] = rows[i].ToDomain()
	}
	return jobs
}

func BidsToDomain(rows []Bid) []domain.Bid {
	bids := make([]domain.Bid, len(rows))
	for i := range rows {
		bids[i] = rows[i].ToDomain()
	}
	return bids
}

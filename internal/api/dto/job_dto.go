package dto

import (
	"fmt"
	"time"

	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
)

// Accepted deadline layouts, tried in order
var deadlineLayouts = []string{time.RFC3339, time.DateOnly}

// ParseDeadline accepts an RFC 3339 timestamp or a plain date
func ParseDeadline(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, fmt.Errorf("%w: deadline %q is not a date", domain.ErrValidation, value)
}

type BuyerDTO struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type CreateJobRequest struct {
	Title       string   `json:"title" binding:"required"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline"`
	MinPrice    float64  `json:"min_price"`
	MaxPrice    float64  `json:"max_price"`
	Buyer       BuyerDTO `json:"buyer"`
}

func (r CreateJobRequest) ToDomain() (domain.Job, error) {
	deadline, err := ParseDeadline(r.Deadline)
	if err != nil {
		return domain.Job{}, err
	}

	return domain.Job{
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		Deadline:    deadline,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
		Buyer: domain.Buyer{
			Email: r.Buyer.Email,
			Name:  r.Buyer.Name,
			Photo: r.Buyer.Photo,
		},
	}, nil
}

type BuyerPatch struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Photo *string `json:"photo"`
}

// UpdateJobRequest is a partial job. Absent fields keep their stored value.
type UpdateJobRequest struct {
	Title       *string     `json:"title"`
	Category    *string     `json:"category"`
	Description *string     `json:"description"`
	Deadline    *string     `json:"deadline"`
	MinPrice    *float64    `json:"min_price"`
	MaxPrice    *float64    `json:"max_price"`
	Buyer       *BuyerPatch `json:"buyer"`
}

func (r UpdateJobRequest) ToPatch() (domain.JobPatch, error) {
	patch := domain.JobPatch{
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
	}

	if r.Deadline != nil {
		deadline, err := ParseDeadline(*r.Deadline)
		if err != nil {
			return domain.JobPatch{}, err
		}
		patch.Deadline = deadline
	}

	if r.Buyer != nil {
		patch.BuyerEmail = r.Buyer.Email
		patch.BuyerName = r.Buyer.Name
		patch.BuyerPhoto = r.Buyer.Photo
	}

	return patch, nil
}

type SearchJobsRequest struct {
	Filter string `form:"filter"`
	Search string `form:"search"`
	Sort   string `form:"sort"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}

func (r SearchJobsRequest) ToQuery() domain.JobQuery {
	return domain.JobQuery{
		Category: r.Filter,
		Search:   r.Search,
		Sort:     r.Sort,
		Page:     r.Page,
		Size:     r.Size,
	}
}

type JobDTO struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	MinPrice    float64    `json:"min_price"`
	MaxPrice    float64    `json:"max_price"`
	Buyer       BuyerView  `json:"buyer"`
	BidCount    int        `json:"bid_count"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

// BuyerView is the owner descriptor shared by jobs and bids
type BuyerView struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

func buyerView(b domain.Buyer) BuyerView {
	return BuyerView{Email: b.Email, Name: b.Name, Photo: b.Photo}
}

func JobFromDomain(job domain.Job) JobDTO {
	return JobDTO{
		ID:          job.ID,
		Title:       job.Title,
		Category:    job.Category,
		Description: job.Description,
		Deadline:    job.Deadline,
		MinPrice:    job.MinPrice,
		MaxPrice:    job.MaxPrice,
		Buyer:       buyerView(job.Buyer),
		BidCount:    job.BidCount,
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   job.UpdatedAt.Format(time.RFC3339),
	}
}

func JobsFromDomain(jobs []domain.Job) []JobDTO {
	out := make([]JobDTO, len(jobs))
	for i, job := range jobs {
		out[i] = JobFromDomain(job)
	}
	return out
}

type InsertResponse struct {
	InsertedID string `json:"insertedId"`
}

type DeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

type CountResponse struct {
	Count int `json:"count"`
}

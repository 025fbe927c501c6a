package domain

import "time"

// Bid status labels used by the marketplace clients
const (
	BidStatusPending    = "Pending"
	BidStatusInProgress = "In Progress"
	BidStatusCompleted  = "Completed"
	BidStatusRejected   = "Rejected"
)

// Bid is a freelancer's offer on a job. At most one bid exists per
// (Email, JobID) pair.
type Bid struct {
	ID        string
	JobID     string
	Email     string
	Price     float64
	Comment   string
	Deadline  *time.Time
	Title     string
	Category  string
	Buyer     Buyer
	Status    string
	CreatedAt time.Time
}

package domain

import "time"

// Buyer describes the owner of a job. Email is the identity key.
type Buyer struct {
	Email string
	Name  string
	Photo string
}

// Job is a buyer's posting that freelancers bid on.
type Job struct {
	ID          string
	Title       string
	Category    string
	Description string
	Deadline    *time.Time
	MinPrice    float64
	MaxPrice    float64
	Buyer       Buyer
	BidCount    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobPatch carries the fields of a partial job update. Nil fields are left
// untouched. The bid counter is owned by the ledger and cannot be patched.
type JobPatch struct {
	Title       *string
	Category    *string
	Description *string
	Deadline    *time.Time
	MinPrice    *float64
	MaxPrice    *float64
	BuyerEmail  *string
	BuyerName   *string
	BuyerPhoto  *string
}

// Sort directions accepted by job search
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// JobQuery filters, searches and orders the job catalog.
type JobQuery struct {
	Category string // exact match
	Search   string // case-insensitive substring of title
	Sort     string // "", asc or desc by deadline
	Page     int    // 1-based, used only with Size
	Size     int    // 0 means no limit
}

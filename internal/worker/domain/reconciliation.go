package domain

// Reconciliation is the outcome of recounting the bids of one job
type Reconciliation struct {
	JobID    string
	Previous int
	Actual   int
}

// Drift is how far the stored counter was off. Zero means nothing changed.
func (r Reconciliation) Drift() int {
	return r.Actual - r.Previous
}

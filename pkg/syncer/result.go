// Package syncer implements the enrichment pipeline that runs when a partner
// company is registered: profile lookup, disclosure-history ingestion, and
// financial-statement snapshot replacement, all best-effort. Every step
// reports its outcome through a StepResult rather than propagating errors, so
// one bad registry response can never abort a sibling step or the triggering
// event.
package syncer

// Step names used in results, logs and metrics
const (
	StepProfile    = "profile"
	StepDisclosure = "disclosure"
	StepFinancial  = "financial"
)

// StepResult is the outcome of one best-effort synchronizer step. Err is the
// contained failure, if any; a non-nil Err never propagates past the step
// that produced it.
type StepResult struct {
	Step    string
	Synced  int
	Skipped int
	Deleted int64
	Err     error
}

// OK reports whether the step completed without a contained failure
func (r StepResult) OK() bool {
	return r.Err == nil
}

// Status returns the metric status label for the step outcome
func (r StepResult) Status() string {
	if r.Err != nil {
		return "error"
	}
	return "success"
}

// Merge folds another result of the same step into this one, keeping the
// first contained error
func (r StepResult) Merge(other StepResult) StepResult {
	r.Synced += other.Synced
	r.Skipped += other.Skipped
	r.Deleted += other.Deleted
	if r.Err == nil {
		r.Err = other.Err
	}
	return r
}

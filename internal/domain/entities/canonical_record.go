package entities

// CanonicalRecord is the source-agnostic intermediate representation produced
// by the format adapters. Only Code is guaranteed; every other field is set
// exactly when a source supplied it.
type CanonicalRecord struct {
	Code               string
	Description        *string
	WorkRVU            *float64
	PracticeExpenseRVU *float64
	MalpracticeRVU     *float64
	GlobalPeriod       *string
	StatusIndicator    *string
}

// HasData reports whether the record carries anything beyond the code itself
func (r *CanonicalRecord) HasData() bool {
	if r == nil {
		return false
	}
	return r.Description != nil ||
		r.WorkRVU != nil ||
		r.PracticeExpenseRVU != nil ||
		r.MalpracticeRVU != nil ||
		r.GlobalPeriod != nil ||
		r.StatusIndicator != nil
}

// FillNextRVU assigns value to the first unset RVU component, in work,
// practice expense, malpractice order. It reports whether a component
// was still unfilled.
func (r *CanonicalRecord) FillNextRVU(value float64) bool {
	switch {
	case r.WorkRVU == nil:
		r.WorkRVU = &value
	case r.PracticeExpenseRVU == nil:
		r.PracticeExpenseRVU = &value
	case r.MalpracticeRVU == nil:
		r.MalpracticeRVU = &value
	default:
		return false
	}
	return true
}

// Package explorer implements the catalog filtering, selection, and
// plot-session state machines, one instance per connected user session.
package explorer

import (
	"time"

	"softfocus/internal/domain"
)

// FilterState holds the full dataset index and the current valid filter.
// Mutators validate first and leave the prior state untouched on bad input,
// so the filter is never left in an invalid state.
type FilterState struct {
	index  []domain.DatasetDescriptor
	filter domain.CatalogFilter
}

// NewFilterState builds the initial match-all state over the index: the
// date range spans the oldest to newest modification time (widened by a day
// when all files share one instant).
func NewFilterState(index []domain.DatasetDescriptor) *FilterState {
	var first, last time.Time
	for _, d := range index {
		if d.ModifiedAt.IsZero() {
			continue
		}
		if first.IsZero() || d.ModifiedAt.Before(first) {
			first = d.ModifiedAt
		}
		if d.ModifiedAt.After(last) {
			last = d.ModifiedAt
		}
	}
	return &FilterState{
		index:  index,
		filter: domain.NewCatalogFilter(first, last),
	}
}

// Filter returns the current predicate state.
func (f *FilterState) Filter() domain.CatalogFilter {
	return f.filter
}

// SetDateRange updates the filter's date bounds. Reversed bounds are
// normalized and a degenerate range is widened by one day, keeping the
// from <= to invariant.
func (f *FilterState) SetDateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return domain.ErrValidation("date range: both bounds are required")
	}
	next := domain.NewCatalogFilter(from, to)
	f.filter.From = next.From
	f.filter.To = next.To
	return nil
}

// SetSizeSpec parses and applies a size constraint. On a parse failure the
// previous size spec is kept and the error is returned for the user.
func (f *FilterState) SetSizeSpec(input string) error {
	spec, err := domain.ParseSizeSpec(input)
	if err != nil {
		return err
	}
	f.filter.Size = spec
	return nil
}

// SetNameFilter updates the case-sensitive name substring. Empty matches all.
func (f *FilterState) SetNameFilter(text string) {
	f.filter.Name = text
}

// View computes the filtered view: the order-preserving subset of the full
// index whose descriptors satisfy the current predicate.
func (f *FilterState) View() []domain.DatasetDescriptor {
	view := make([]domain.DatasetDescriptor, 0, len(f.index))
	for _, d := range f.index {
		if f.filter.Matches(d) {
			view = append(view, d)
		}
	}
	return view
}

// Contains reports whether the named dataset is in the current view.
func (f *FilterState) Contains(datasetID string) bool {
	for _, d := range f.View() {
		if d.Name == datasetID {
			return true
		}
	}
	return false
}

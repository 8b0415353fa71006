package domain

import (
	"strconv"
	"strings"
	"time"
)

// SizeRangeDelimiter separates the two bounds of a size-spec range.
const SizeRangeDelimiter = ".."

// SizeSpec constrains dataset size in whole kilobytes. An exact-match spec
// has MinKB == MaxKB.
type SizeSpec struct {
	MinKB int64 `json:"min_kb"`
	MaxKB int64 `json:"max_kb"`
}

// Matches reports whether a byte size falls within the spec, on kilobyte
// granularity.
func (s SizeSpec) Matches(sizeBytes int64) bool {
	kb := sizeBytes / 1024
	return kb >= s.MinKB && kb <= s.MaxKB
}

// String renders the spec in the same form ParseSizeSpec accepts.
func (s SizeSpec) String() string {
	if s.MinKB == s.MaxKB {
		return strconv.FormatInt(s.MinKB, 10)
	}
	return strconv.FormatInt(s.MinKB, 10) + SizeRangeDelimiter + strconv.FormatInt(s.MaxKB, 10)
}

// ParseSizeSpec parses a size constraint: a single integer ("100") for exact
// match, or two integers separated by ".." for an inclusive range. The range
// is order-independent — min is the smaller of the two bounds. Empty input
// means no constraint (nil spec). Anything else is a ValidationError.
func ParseSizeSpec(input string) (*SizeSpec, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	parts := strings.Split(input, SizeRangeDelimiter)
	switch len(parts) {
	case 1:
		v, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, ErrValidation("size filter %q: want an integer like '100' or a range like '10..200'", input)
		}
		return &SizeSpec{MinKB: v, MaxKB: v}, nil
	case 2:
		lo, err1 := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		hi, err2 := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err1 != nil || err2 != nil {
			return nil, ErrValidation("size filter %q: range bounds must be integers", input)
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return &SizeSpec{MinKB: lo, MaxKB: hi}, nil
	default:
		return nil, ErrValidation("size filter %q: want '100' or '10..200'", input)
	}
}

// CatalogFilter is the current predicate state over the catalog: a date
// range, an optional size constraint, and an optional name substring.
// Invariant: From <= To and the range is never degenerate.
type CatalogFilter struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Size *SizeSpec `json:"size,omitempty"`
	Name string    `json:"name,omitempty"`
}

// NewCatalogFilter builds the initial match-all filter spanning the given
// modification-time bounds. A collapsed range is widened by one day so the
// bounds are never degenerate.
func NewCatalogFilter(first, last time.Time) CatalogFilter {
	if last.Before(first) {
		first, last = last, first
	}
	if last.Equal(first) {
		last = first.Add(24 * time.Hour)
	}
	return CatalogFilter{From: first, To: last}
}

// Matches evaluates the filter predicate against one descriptor: date within
// [From, To] AND size within/equal to the spec (absent spec matches all) AND
// name containing the filter text (case-sensitive; empty matches all).
func (f CatalogFilter) Matches(d DatasetDescriptor) bool {
	if d.ModifiedAt.Before(f.From) || d.ModifiedAt.After(f.To) {
		return false
	}
	if f.Size != nil && !f.Size.Matches(d.SizeBytes) {
		return false
	}
	if f.Name != "" && !strings.Contains(d.Name, f.Name) {
		return false
	}
	return true
}

package dataset

import (
	"strings"

	"opcvcli/pkg/contracts/domain"
)

// IssueDateContains matches rows whose raw issue-date string contains the
// given substring. Selecting a year works on both source date encodings
// because the four-digit year appears verbatim in each.
func IssueDateContains(substr string) Predicate {
	return func(v *domain.Violation) bool {
		return strings.Contains(v.IssueDate, substr)
	}
}

// ViolationContains matches rows whose violation label contains the given
// substring, e.g. the school-zone speed-camera label.
func ViolationContains(substr string) Predicate {
	return func(v *domain.Violation) bool {
		return strings.Contains(v.Violation, substr)
	}
}

// AmountPositive matches rows with a non-null amount due greater than zero
func AmountPositive() Predicate {
	return func(v *domain.Violation) bool {
		return v.AmountDue != nil && *v.AmountDue > 0
	}
}

// AmountAtLeast matches rows with a non-null amount due of at least min.
// This is a per-row filter; for thresholds over aggregated sums use Having.
func AmountAtLeast(min float64) Predicate {
	return func(v *domain.Violation) bool {
		return v.AmountDue != nil && *v.AmountDue >= min
	}
}

// StateIn matches rows whose jurisdiction code is in the given set
func StateIn(states ...string) Predicate {
	set := make(map[string]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	return func(v *domain.Violation) bool {
		_, ok := set[v.State]
		return ok
	}
}

// StateNotIn matches rows whose jurisdiction code is not in the given set
func StateNotIn(states ...string) Predicate {
	return Not(StateIn(states...))
}

// Not inverts a predicate
func Not(pred Predicate) Predicate {
	return func(v *domain.Violation) bool {
		return !pred(v)
	}
}

// KeyState groups by the issuing jurisdiction code
func KeyState() KeyFunc {
	return func(v *domain.Violation) (string, bool) {
		return v.State, true
	}
}

// KeyPlate groups by the plate identifier
func KeyPlate() KeyFunc {
	return func(v *domain.Violation) (string, bool) {
		return v.Plate, true
	}
}

// VehicleGroup reconstructs the vehicle key from an aggregated group
// produced by GroupBy(KeyState(), KeyPlate()).
func VehicleGroup(g Group) domain.VehicleKey {
	return domain.VehicleKey{State: g.Keys[0], Plate: g.Keys[1]}
}

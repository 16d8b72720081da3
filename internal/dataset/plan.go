package dataset

import (
	"context"
	"sort"
	"strings"

	"opcvcli/pkg/contracts/domain"
)

// Predicate tests one row. Predicates on a plan compose with logical AND.
type Predicate func(*domain.Violation) bool

// KeyFunc extracts one grouping key component from a row. The second return
// reports whether the key resolved; rows with an unresolvable component are
// excluded from that grouping and tallied in Result.Unresolved instead of
// being silently dropped.
type KeyFunc func(*domain.Violation) (string, bool)

// Plan is a deferred row-level query: a chain of filters over a dataset
// scan. Plans are values; every operation returns a new plan and never
// mutates the receiver, so a plan can be extended in several directions and
// each branch executed independently.
type Plan struct {
	ds    *Dataset
	preds []Predicate
}

// Filter returns a new plan with an additional row predicate.
// This is a row filter: it always applies to raw rows, before any grouping.
func (p Plan) Filter(pred Predicate) Plan {
	preds := make([]Predicate, len(p.preds), len(p.preds)+1)
	copy(preds, p.preds)
	return Plan{ds: p.ds, preds: append(preds, pred)}
}

func (p Plan) matches(v *domain.Violation) bool {
	for _, pred := range p.preds {
		if !pred(v) {
			return false
		}
	}
	return true
}

// Collect executes the plan and materializes every matching row.
// Only meant for small selections and tests; aggregation paths never
// materialize raw rows.
func (p Plan) Collect(ctx context.Context) ([]domain.Violation, error) {
	var out []domain.Violation
	err := p.ds.scan(func(v *domain.Violation) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.matches(v) {
			out = append(out, *v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Violation{}
	}
	return out, nil
}

// Totals executes the plan and returns the matching row count and the sum
// of amounts due, with null amounts contributing zero.
func (p Plan) Totals(ctx context.Context) (count int64, sum float64, err error) {
	err = p.ds.scan(func(v *domain.Violation) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p.matches(v) {
			count++
			sum += v.Amount()
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return count, sum, nil
}

// GroupBy turns the plan into a grouped aggregation over the given key
// components. Filters already on the plan stay row filters (applied before
// grouping); use Having on the result for aggregate-level filtering.
func (p Plan) GroupBy(keys ...KeyFunc) Grouped {
	return Grouped{plan: p, keys: keys}
}

// Group is one aggregated output row: the group key components plus the
// reduced values for every row that fell into the group.
type Group struct {
	Keys   []string
	Count  int64
	Sum    float64
	Months MonthSet
}

// Result is the materialized output of a grouped Collect
type Result struct {
	// Groups in first-seen scan order, then reordered by SortBy if set
	Groups []Group
	// Matched counts rows that passed the row filters, including rows
	// later excluded for an unresolvable key. Conservation invariant:
	// Matched == sum of group counts + Unresolved (before Having).
	Matched int64
	// Unresolved counts matched rows excluded because a key component
	// did not resolve
	Unresolved int64
}

// Grouped is a deferred group-and-aggregate query. Like Plan, it is an
// immutable value: Having and SortBy return extended copies.
type Grouped struct {
	plan   Plan
	keys   []KeyFunc
	months func(*domain.Violation) (int, bool)
	having []func(Group) bool
	less   func(a, b Group) bool
}

// WithMonths additionally aggregates the set of distinct months each group
// was seen in, using the supplied resolver. Rows whose month does not
// resolve still count toward the group; only the month set skips them.
func (g Grouped) WithMonths(resolve func(*domain.Violation) (int, bool)) Grouped {
	g2 := g
	g2.months = resolve
	return g2
}

// Having filters the aggregated output. This is HAVING semantics: the
// predicate sees group totals, never raw rows, so "sum >= 350" admits a
// group of two 200s even though no single row reaches 350.
func (g Grouped) Having(pred func(Group) bool) Grouped {
	g2 := g
	g2.having = make([]func(Group) bool, len(g.having), len(g.having)+1)
	copy(g2.having, g.having)
	g2.having = append(g2.having, pred)
	return g2
}

// SortBy orders the materialized groups. Sorting happens after aggregation
// on the (small) result, never on raw rows. The sort is stable over the
// first-seen order, keeping Collect deterministic for equal keys.
func (g Grouped) SortBy(less func(a, b Group) bool) Grouped {
	g2 := g
	g2.less = less
	return g2
}

// keySeparator joins key components into the map key. ASCII unit separator:
// it cannot occur in plate or state codes.
const keySeparator = "\x1f"

// Collect executes the full deferred pipeline: row filters, then grouping,
// then aggregation, then Having, then SortBy. Memory is bounded by the
// number of distinct groups, not the dataset size. Running Collect twice
// against an unchanged dataset yields identical ordered results.
func (g Grouped) Collect(ctx context.Context) (*Result, error) {
	groups := make(map[string]*Group)
	var order []string
	res := &Result{}

	err := g.plan.ds.scan(func(v *domain.Violation) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !g.plan.matches(v) {
			return nil
		}
		res.Matched++

		parts := make([]string, len(g.keys))
		for i, key := range g.keys {
			part, ok := key(v)
			if !ok {
				res.Unresolved++
				return nil
			}
			parts[i] = part
		}

		mapKey := strings.Join(parts, keySeparator)
		grp, ok := groups[mapKey]
		if !ok {
			grp = &Group{Keys: parts}
			groups[mapKey] = grp
			order = append(order, mapKey)
		}

		grp.Count++
		grp.Sum += v.Amount()
		if g.months != nil {
			if month, ok := g.months(v); ok {
				grp.Months = grp.Months.Add(month)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Groups = make([]Group, 0, len(order))
	for _, mapKey := range order {
		grp := *groups[mapKey]
		if g.keep(grp) {
			res.Groups = append(res.Groups, grp)
		}
	}

	if g.less != nil {
		sort.SliceStable(res.Groups, func(i, j int) bool {
			return g.less(res.Groups[i], res.Groups[j])
		})
	}

	return res, nil
}

func (g Grouped) keep(grp Group) bool {
	for _, pred := range g.having {
		if !pred(grp) {
			return false
		}
	}
	return true
}

package domain

import (
	"fmt"
)

// Violation represents a single issued citation from the open violations
// dataset. IssueDate is kept as the raw source string because the snapshot
// mixes two incompatible encodings (see dataprocessing.ResolveMonth).
// AmountDue is nullable in the source; nil means no amount was recorded.
type Violation struct {
	State     string   `json:"state" parquet:"state,dict,snappy" validate:"required"`
	Plate     string   `json:"plate" parquet:"plate,dict,snappy" validate:"required"`
	IssueDate string   `json:"issue_date" parquet:"issue_date,snappy"`
	Violation string   `json:"violation" parquet:"violation,dict,snappy"`
	AmountDue *float64 `json:"amount_due,omitempty" parquet:"amount_due,optional,snappy"`
}

// Amount returns the amount due with null treated as zero. All summation in
// the pipeline uses skip-null semantics, never null propagation.
func (v *Violation) Amount() float64 {
	if v.AmountDue == nil {
		return 0
	}
	return *v.AmountDue
}

// VehicleKey identifies a vehicle as the (issuing state, plate) pair.
// It is not globally unique - placeholder plates like BLANKPLATE collide -
// but it is the grouping identity for every per-vehicle statistic.
type VehicleKey struct {
	State string `json:"state"`
	Plate string `json:"plate"`
}

// String renders the key in "STATE PLATE" form for report output.
func (k VehicleKey) String() string {
	return fmt.Sprintf("%s %s", k.State, k.Plate)
}

// VehicleTally is the per-vehicle aggregation result: how many citations a
// vehicle accumulated and the total amount it owes. Ephemeral, scoped to a
// single query execution.
type VehicleTally struct {
	Vehicle  VehicleKey `json:"vehicle"`
	Tickets  int64      `json:"tickets"`
	TotalDue float64    `json:"total_due"`
}

// CountBucket is one row of the ticket-count distribution: the number of
// vehicles that received exactly Tickets citations, and the total amount
// those vehicles owe.
type CountBucket struct {
	Tickets  int64   `json:"tickets"`
	Vehicles int64   `json:"vehicles"`
	TotalDue float64 `json:"total_due"`
}

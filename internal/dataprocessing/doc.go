// Package dataprocessing holds the analytical layer of the pipeline: the
// issue-date normalization rules and the fixed report query sequence.
//
// Date normalization is a two-tier resolution over the raw issue-date
// string (the snapshot mixes calendar dates with full timestamps) exposed
// as an explicit MonthOutcome rather than a silent parser fallback.
//
// The Analyzer composes deferred dataset plans for each report question -
// year totals, per-vehicle tallies, the ticket-count distribution,
// super speeders, big debtors, and the non-metro calendar-month analysis -
// and only ever materializes the small aggregated results.
package dataprocessing

package fhiretl

import "sort"

// RuleCount is the failure count for a single validation rule.
type RuleCount struct {
	// Error is the rule name.
	Error string `json:"error"`

	// Count is the number of rows that failed the rule.
	Count int `json:"count"`
}

// ValidationReport summarizes the rule outcomes for one validated silver table.
// A row is valid when its validation error list is empty.
type ValidationReport struct {
	// TotalRecords is the number of rows in the table.
	TotalRecords int `json:"total_records"`

	// ValidRecords is the number of rows with no rule failures.
	ValidRecords int `json:"valid_records"`

	// InvalidRecords is the number of rows with at least one rule failure.
	InvalidRecords int `json:"invalid_records"`

	// ValidityRate is ValidRecords / TotalRecords, 0.0 for an empty table.
	ValidityRate float64 `json:"validity_rate"`

	// ErrorsByRule lists failure counts per rule, ordered by count descending.
	// Ties are broken by rule name so report output is deterministic.
	ErrorsByRule []RuleCount `json:"errors_by_rule"`
}

// NewValidationReport builds a report from per-row validation error lists.
func NewValidationReport(errorLists [][]string) *ValidationReport {
	total := len(errorLists)
	valid := 0
	counts := make(map[string]int)

	for _, errs := range errorLists {
		if len(errs) == 0 {
			valid++
		}
		for _, name := range errs {
			counts[name]++
		}
	}

	byRule := make([]RuleCount, 0, len(counts))
	for name, count := range counts {
		byRule = append(byRule, RuleCount{Error: name, Count: count})
	}
	sort.Slice(byRule, func(i, j int) bool {
		if byRule[i].Count != byRule[j].Count {
			return byRule[i].Count > byRule[j].Count
		}
		return byRule[i].Error < byRule[j].Error
	})

	rate := 0.0
	if total > 0 {
		rate = float64(valid) / float64(total)
	}

	return &ValidationReport{
		TotalRecords:   total,
		ValidRecords:   valid,
		InvalidRecords: total - valid,
		ValidityRate:   rate,
		ErrorsByRule:   byRule,
	}
}

// Valid returns true if every row passed every rule.
func (r *ValidationReport) Valid() bool {
	return r.InvalidRecords == 0
}

// FailureCount returns the count recorded for a rule name, 0 if absent.
func (r *ValidationReport) FailureCount(rule string) int {
	for _, rc := range r.ErrorsByRule {
		if rc.Error == rule {
			return rc.Count
		}
	}
	return 0
}

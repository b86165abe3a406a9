// Package rules implements declarative, batch-oriented validation for silver
// records. A rule set is plain data: each rule names itself, describes what
// it checks, and produces one verdict per input row. Validation never drops
// or reorders rows; failing rows come back annotated with the names of the
// rules they failed.
package rules

import "fmt"

// Rule is one named check over a batch of rows. Check receives the whole
// batch and must return exactly one verdict per row, true meaning the row
// passes. Checks are written over extracted fields, so a rule that only
// applies when a field is present passes nil values explicitly.
type Rule[T any] struct {
	Name        string
	Description string
	Check       func(rows []T) []bool
}

// Record is a silver row that can carry validation errors.
type Record[T any] interface {
	WithValidationErrors(errs []string) T
	Errors() []string
}

// Validate runs every rule of the set against rows and returns a new slice
// with each row's validation errors populated, in rule declaration order.
// Input rows are not mutated. A Check returning the wrong number of verdicts
// is a programming error and panics.
func Validate[T Record[T]](rows []T, ruleSet []Rule[T]) []T {
	failures := make([][]string, len(rows))
	for _, rule := range ruleSet {
		verdicts := rule.Check(rows)
		if len(verdicts) != len(rows) {
			panic(fmt.Sprintf("rules: %q returned %d verdicts for %d rows",
				rule.Name, len(verdicts), len(rows)))
		}
		for i, pass := range verdicts {
			if !pass {
				failures[i] = append(failures[i], rule.Name)
			}
		}
	}

	out := make([]T, len(rows))
	for i, row := range rows {
		errs := failures[i]
		if errs == nil {
			errs = []string{}
		}
		out[i] = row.WithValidationErrors(errs)
	}
	return out
}

// ErrorLists collects the validation errors of each row, one slice per row.
func ErrorLists[T Record[T]](rows []T) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = row.Errors()
	}
	return out
}

// Names lists the rule names of a set in declaration order.
func Names[T any](ruleSet []Rule[T]) []string {
	names := make([]string, len(ruleSet))
	for i, rule := range ruleSet {
		names[i] = rule.Name
	}
	return names
}

// column lifts a per-row predicate into a batch Check.
func column[T any](test func(row T) bool) func([]T) []bool {
	return func(rows []T) []bool {
		verdicts := make([]bool, len(rows))
		for i, row := range rows {
			verdicts[i] = test(row)
		}
		return verdicts
	}
}

// Package reporting computes data quality summaries over silver rows and
// renders pipeline results for the console.
package reporting

import (
	"github.com/gofhir/etl/silver"
)

// FieldCount is one populated-field statistic of a summary.
type FieldCount struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}

// Summary counts how many rows of a silver table have each notable field
// populated. Fields keep their declaration order for stable output.
type Summary struct {
	Total  int          `json:"total"`
	Fields []FieldCount `json:"fields"`
}

// Percent returns a field count as a percentage of the total, 0 when the
// summary is empty.
func (s Summary) Percent(count int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(count) / float64(s.Total) * 100
}

func countWhere[T any](rows []T, populated func(T) bool) int {
	n := 0
	for _, row := range rows {
		if populated(row) {
			n++
		}
	}
	return n
}

// PatientSummary reports field coverage over silver patient rows.
func PatientSummary(rows []silver.Patient) Summary {
	return Summary{
		Total: len(rows),
		Fields: []FieldCount{
			{"with_family_name", countWhere(rows, func(p silver.Patient) bool { return p.FamilyName != nil })},
			{"with_given_names", countWhere(rows, func(p silver.Patient) bool { return p.GivenNames != nil })},
			{"with_birth_date", countWhere(rows, func(p silver.Patient) bool { return p.BirthDate != nil })},
			{"with_gender", countWhere(rows, func(p silver.Patient) bool { return p.Gender != nil })},
			{"with_phone", countWhere(rows, func(p silver.Patient) bool { return p.Phone != nil })},
			{"with_city", countWhere(rows, func(p silver.Patient) bool { return p.City != nil })},
			{"with_nationality", countWhere(rows, func(p silver.Patient) bool { return p.NationalityCode != nil })},
		},
	}
}

// ConditionSummary reports field coverage over silver condition rows.
func ConditionSummary(rows []silver.Condition) Summary {
	return Summary{
		Total: len(rows),
		Fields: []FieldCount{
			{"with_patient_id", countWhere(rows, func(c silver.Condition) bool { return c.PatientID != nil })},
			{"with_code", countWhere(rows, func(c silver.Condition) bool { return c.Code != nil })},
			{"with_code_display", countWhere(rows, func(c silver.Condition) bool { return c.CodeDisplay != nil })},
			{"with_onset_date", countWhere(rows, func(c silver.Condition) bool { return c.OnsetDate != nil })},
			{"with_category", countWhere(rows, func(c silver.Condition) bool { return c.CategoryCode != nil })},
		},
	}
}

// ObservationSummary reports field coverage over silver observation rows.
func ObservationSummary(rows []silver.Observation) Summary {
	return Summary{
		Total: len(rows),
		Fields: []FieldCount{
			{"with_status", countWhere(rows, func(o silver.Observation) bool { return o.Status != nil })},
			{"with_subject", countWhere(rows, func(o silver.Observation) bool { return o.SubjectReference != nil })},
			{"with_code", countWhere(rows, func(o silver.Observation) bool { return o.CodeCode != nil })},
			{"with_effective_datetime", countWhere(rows, func(o silver.Observation) bool { return o.EffectiveDateTime != nil })},
			{"with_components", countWhere(rows, func(o silver.Observation) bool { return o.ComponentCount > 0 })},
			{"with_value", countWhere(rows, func(o silver.Observation) bool { return o.Type != nil })},
			{"with_performers", countWhere(rows, func(o silver.Observation) bool { return len(o.PerformerReferences) > 0 })},
		},
	}
}

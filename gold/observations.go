// Package gold derives analysis-ready aggregates from validated silver data.
package gold

import (
	"time"

	"github.com/gofhir/etl/silver"
)

// ObservationsPerPatient is one row of the gold observations_per_patient
// table: per-patient observation volume joined with demographics.
type ObservationsPerPatient struct {
	PatientID        *string    `json:"patient_id"`
	ObservationCount int64      `json:"observation_count"`
	BirthDate        *time.Time `json:"birth_date"`
	PatientAgeYears  *int64     `json:"patient_age_years"`
}

// BuildObservationsPerPatient joins patients against observation counts.
// Every patient keeps a row even with zero observations, in patient input
// order. Observations whose subject is unresolved are not counted. A birth
// date that is not a plain calendar date leaves both BirthDate and the age
// null.
func BuildObservationsPerPatient(
	patients []silver.Patient,
	observations []silver.Observation,
	asOf time.Time,
) []ObservationsPerPatient {
	counts := make(map[string]int64)
	for _, o := range observations {
		if o.SubjectID != nil {
			counts[*o.SubjectID]++
		}
	}

	out := make([]ObservationsPerPatient, 0, len(patients))
	for _, p := range patients {
		row := ObservationsPerPatient{PatientID: p.ID}
		if p.ID != nil {
			row.ObservationCount = counts[*p.ID]
		}
		if p.BirthDate != nil {
			if birth, err := time.Parse("2006-01-02", *p.BirthDate); err == nil {
				row.BirthDate = &birth
				age := ageYears(birth, asOf)
				row.PatientAgeYears = &age
			}
		}
		out = append(out, row)
	}
	return out
}

// ageYears computes whole years as elapsed days divided by 365. Leap days
// make this drift slightly from calendar age, which is accepted for cohort
// level statistics.
func ageYears(birth, asOf time.Time) int64 {
	b := time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	a := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	days := int64(a.Sub(b) / (24 * time.Hour))
	return days / 365
}

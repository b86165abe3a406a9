package rules

import (
	"slices"
	"testing"

	"github.com/gofhir/etl/silver"
)

func validCondition() silver.Condition {
	return silver.Condition{
		ID:          strPtr("c1"),
		Code:        strPtr("59621000"),
		CodeDisplay: strPtr("Essential hypertension"),
		CodeSystem:  strPtr("http://snomed.info/sct"),
		PatientID:   strPtr("p1"),
	}
}

func TestConditionRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *silver.Condition)
		want   []string
	}{
		{name: "fully valid", mutate: func(c *silver.Condition) {}},
		{
			name:   "missing code and display",
			mutate: func(c *silver.Condition) { c.Code = nil; c.CodeDisplay = nil },
			want:   []string{"code_required", "code_display_required"},
		},
		{
			name:   "not linked to a patient",
			mutate: func(c *silver.Condition) { c.PatientID = nil },
			want:   []string{"patient_id_required"},
		},
		{
			name:   "valid onset date",
			mutate: func(c *silver.Condition) { c.OnsetDate = strPtr("2020-06-15") },
		},
		{
			name:   "onset datetime rejected",
			mutate: func(c *silver.Condition) { c.OnsetDate = strPtr("2020-06-15T08:00:00Z") },
			want:   []string{"onset_date_format"},
		},
		{
			name:   "bad abatement date",
			mutate: func(c *silver.Condition) { c.AbatementDate = strPtr("15/06/2020") },
			want:   []string{"abatement_date_format"},
		},
		{
			name:   "missing code system passes",
			mutate: func(c *silver.Condition) { c.CodeSystem = nil },
		},
		{
			name:   "non snomed code system",
			mutate: func(c *silver.Condition) { c.CodeSystem = strPtr("http://hl7.org/fhir/sid/icd-10") },
			want:   []string{"valid_code_system"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCondition()
			tt.mutate(&c)
			got := failedRules([]silver.Condition{c}, ConditionRules, 0)
			if tt.want == nil {
				tt.want = []string{}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("errors = %v, want %v", got, tt.want)
			}
		})
	}
}

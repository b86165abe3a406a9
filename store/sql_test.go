package store

import (
	"strings"
	"testing"
)

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"patient", `"patient"`},
		{"observations_per_patient", `"observations_per_patient"`},
		{`odd"name`, `"odd""name"`},
	}
	for _, tt := range tests {
		if got := quoteIdent(tt.in); got != tt.want {
			t.Errorf("quoteIdent(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestQualifiedTable(t *testing.T) {
	if got := qualifiedTable("bronze", "patient"); got != `"bronze"."patient"` {
		t.Errorf("qualifiedTable() = %s", got)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3); got != "?, ?, ?" {
		t.Errorf("placeholders(3) = %q", got)
	}
	if got := placeholders(1); got != "?" {
		t.Errorf("placeholders(1) = %q", got)
	}
}

func TestInsertColumnCountsMatchPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"patient", insertPatientSQL()},
		{"condition", insertConditionSQL()},
		{"observation", insertObservationSQL()},
		{"gold", insertGoldSQL()},
		{"runs", insertRunSQL()},
		{"bronze", insertBronzeSQL("patient")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open := strings.Index(tt.sql, "(")
			closing := strings.Index(tt.sql[open:], ")")
			cols := strings.Count(tt.sql[open:open+closing], ",") + 1
			marks := strings.Count(tt.sql, "?")
			if cols != marks {
				t.Errorf("%d columns but %d placeholders in:\n%s", cols, marks, tt.sql)
			}
		})
	}
}

func TestResourceTable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Patient", "patient"},
		{"Observation", "observation"},
		{"Condition", "condition"},
		{"MedicationRequest", "medicationrequest"},
	}
	for _, tt := range tests {
		if got := ResourceTable(tt.in); got != tt.want {
			t.Errorf("ResourceTable(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

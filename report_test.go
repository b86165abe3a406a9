package fhiretl

import (
	"testing"
)

func TestNewValidationReport(t *testing.T) {
	report := NewValidationReport([][]string{
		{},
		{"id_required"},
		{"id_required", "has_name"},
		{},
		{},
	})

	if report.TotalRecords != 5 || report.ValidRecords != 3 || report.InvalidRecords != 2 {
		t.Errorf("report = %d total / %d valid / %d invalid, want 5/3/2",
			report.TotalRecords, report.ValidRecords, report.InvalidRecords)
	}
	if report.ValidityRate != 0.6 {
		t.Errorf("ValidityRate = %v, want 0.6", report.ValidityRate)
	}
	if report.Valid() {
		t.Error("Valid() = true for a report with failures")
	}

	if len(report.ErrorsByRule) != 2 {
		t.Fatalf("ErrorsByRule = %d entries, want 2", len(report.ErrorsByRule))
	}
	if report.ErrorsByRule[0].Error != "id_required" || report.ErrorsByRule[0].Count != 2 {
		t.Errorf("ErrorsByRule[0] = %+v, want id_required count 2", report.ErrorsByRule[0])
	}
	if report.FailureCount("has_name") != 1 {
		t.Errorf("FailureCount(has_name) = %d, want 1", report.FailureCount("has_name"))
	}
	if report.FailureCount("missing") != 0 {
		t.Errorf("FailureCount(missing) = %d, want 0", report.FailureCount("missing"))
	}
}

func TestNewValidationReportEmpty(t *testing.T) {
	report := NewValidationReport(nil)
	if report.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d, want 0", report.TotalRecords)
	}
	if report.ValidityRate != 0.0 {
		t.Errorf("ValidityRate = %v, want 0.0 for an empty table", report.ValidityRate)
	}
	if !report.Valid() {
		t.Error("Valid() = false for an empty report")
	}
}

func TestNewValidationReportTieBreak(t *testing.T) {
	report := NewValidationReport([][]string{
		{"b_rule", "a_rule"},
	})
	// Equal counts order by rule name.
	if report.ErrorsByRule[0].Error != "a_rule" || report.ErrorsByRule[1].Error != "b_rule" {
		t.Errorf("tie break order = %s, %s; want a_rule, b_rule",
			report.ErrorsByRule[0].Error, report.ErrorsByRule[1].Error)
	}
}

func TestNewValidationReportAllValid(t *testing.T) {
	report := NewValidationReport([][]string{{}, {}})
	if !report.Valid() || report.ValidityRate != 1.0 {
		t.Errorf("report = %+v, want fully valid", report)
	}
	if len(report.ErrorsByRule) != 0 {
		t.Errorf("ErrorsByRule = %v, want empty", report.ErrorsByRule)
	}
}

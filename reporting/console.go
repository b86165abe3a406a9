package reporting

import (
	"fmt"
	"io"
	"sort"

	fhiretl "github.com/gofhir/etl"
)

// PrintBronzeSummary writes bronze table counts in table name order.
func PrintBronzeSummary(w io.Writer, tables map[string]int) {
	total := 0
	names := make([]string, 0, len(tables))
	for name, count := range tables {
		names = append(names, name)
		total += count
	}
	sort.Strings(names)

	fmt.Fprintf(w, "Loaded %d resource types (%d total resources)\n", len(tables), total)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Bronze tables:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, tables[name])
	}
}

// PrintSilverCounts writes the silver layer row counts.
func PrintSilverCounts(w io.Writer, patients, conditions, observations Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Silver layer (in-memory):")
	fmt.Fprintf(w, "  patient: %d\n", patients.Total)
	fmt.Fprintf(w, "  condition: %d\n", conditions.Total)
	fmt.Fprintf(w, "  observation: %d\n", observations.Total)
}

// PrintQuality writes one entity's field coverage block.
func PrintQuality(w io.Writer, title string, s Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s data quality:\n", title)
	for _, f := range s.Fields {
		fmt.Fprintf(w, "  %s: %d (%.0f%%)\n", f.Field, f.Count, s.Percent(f.Count))
	}
}

// PrintValidation writes one entity's validation result block.
func PrintValidation(w io.Writer, title string, report *fhiretl.ValidationReport) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s validation results:\n", title)
	fmt.Fprintf(w, "  Valid: %d\n", report.ValidRecords)
	fmt.Fprintf(w, "  Invalid: %d\n", report.InvalidRecords)
	fmt.Fprintf(w, "  Validity rate: %.1f%%\n", report.ValidityRate*100)
	if len(report.ErrorsByRule) > 0 {
		fmt.Fprintln(w, "  Errors by rule:")
		for _, e := range report.ErrorsByRule {
			fmt.Fprintf(w, "    %s: %d\n", e.Error, e.Count)
		}
	}
}

// PrintGoldSummary writes gold table counts.
func PrintGoldSummary(w io.Writer, observationsPerPatient int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Gold tables:")
	fmt.Fprintf(w, "  observations_per_patient: %d\n", observationsPerPatient)
}

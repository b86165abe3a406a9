package silver

import (
	"slices"

	"github.com/gofhir/etl/pkg/fhir"
)

// Condition is one flattened row of the silver condition table.
type Condition struct {
	ID           *string `json:"id"`
	SourceFile   *string `json:"source_file"`
	SourceBundle *string `json:"source_bundle"`

	PatientID      *string `json:"patient_id"`
	PatientDisplay *string `json:"patient_display"`

	CategoryCode    *string `json:"category_code"`
	CategoryDisplay *string `json:"category_display"`

	CodeSystem  *string `json:"code_system"`
	Code        *string `json:"code"`
	CodeDisplay *string `json:"code_display"`
	CodeText    *string `json:"code_text"`

	OnsetDate       *string `json:"onset_date"`
	AbatementDate   *string `json:"abatement_date"`
	AsserterDisplay *string `json:"asserter_display"`

	ValidationErrors []string `json:"validation_errors"`
}

// WithValidationErrors returns a copy of the row carrying errs.
func (c Condition) WithValidationErrors(errs []string) Condition {
	c.ValidationErrors = slices.Clone(errs)
	return c
}

// Errors returns the row's validation errors.
func (c Condition) Errors() []string { return c.ValidationErrors }

// primitiveDate reads a FHIR date field, falling back to the primitive
// extension form ("_onsetDateTime": {"value": ...}) used when the value
// itself carries extensions.
func primitiveDate(row map[string]any, key string) *string {
	if v := row[key]; v != nil {
		return fhir.String(v)
	}
	if ext, ok := row["_"+key].(map[string]any); ok {
		return fhir.String(ext["value"])
	}
	return nil
}

// TransformCondition flattens one bronze Condition row.
func TransformCondition(row map[string]any) Condition {
	subjectRef := fhir.Reference(row["subject"])
	categoryCode, categoryDisplay := fhir.CategoryCode(row["category"])
	code := fhir.PrimaryCoding(row["code"])

	var patientDisplay *string
	if subject, ok := row["subject"].(map[string]any); ok {
		patientDisplay = fhir.String(subject["display"])
	}
	var asserterDisplay *string
	if asserter, ok := row["asserter"].(map[string]any); ok {
		asserterDisplay = fhir.String(asserter["display"])
	}

	return Condition{
		ID:           fhir.String(row["id"]),
		SourceFile:   fhir.String(row["_source_file"]),
		SourceBundle: fhir.String(row["_source_bundle"]),

		PatientID:      fhir.ReferenceID(subjectRef),
		PatientDisplay: patientDisplay,

		CategoryCode:    categoryCode,
		CategoryDisplay: categoryDisplay,

		CodeSystem:  code.System,
		Code:        code.Code,
		CodeDisplay: code.Display,
		CodeText:    fhir.CodeText(row["code"]),

		OnsetDate:       primitiveDate(row, "onsetDateTime"),
		AbatementDate:   primitiveDate(row, "abatementDateTime"),
		AsserterDisplay: asserterDisplay,

		ValidationErrors: []string{},
	}
}

// TransformConditions flattens a batch of bronze Condition rows, preserving
// input order.
func TransformConditions(rows []map[string]any) []Condition {
	out := make([]Condition, 0, len(rows))
	for _, row := range rows {
		out = append(out, TransformCondition(row))
	}
	return out
}

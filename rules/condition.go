package rules

import (
	"github.com/gofhir/etl/pkg/fhir"
	"github.com/gofhir/etl/silver"
)

// ConditionRules validates silver condition rows.
var ConditionRules = []Rule[silver.Condition]{
	{
		Name:        "id_required",
		Description: "Condition ID must not be null",
		Check: column(func(c silver.Condition) bool {
			return c.ID != nil
		}),
	},
	{
		Name:        "code_required",
		Description: "Condition must have a diagnosis code",
		Check: column(func(c silver.Condition) bool {
			return c.Code != nil
		}),
	},
	{
		Name:        "code_display_required",
		Description: "Condition must have a diagnosis display name",
		Check: column(func(c silver.Condition) bool {
			return c.CodeDisplay != nil
		}),
	},
	{
		Name:        "patient_id_required",
		Description: "Condition must be linked to a patient",
		Check: column(func(c silver.Condition) bool {
			return c.PatientID != nil
		}),
	},
	{
		Name:        "onset_date_format",
		Description: "Onset date must be in YYYY-MM-DD format",
		Check: column(func(c silver.Condition) bool {
			return c.OnsetDate == nil || isDate(*c.OnsetDate)
		}),
	},
	{
		Name:        "abatement_date_format",
		Description: "Abatement date must be in YYYY-MM-DD format",
		Check: column(func(c silver.Condition) bool {
			return c.AbatementDate == nil || isDate(*c.AbatementDate)
		}),
	},
	{
		// A missing code system passes; only a wrong one is flagged.
		Name:        "valid_code_system",
		Description: "Code system should be SNOMED CT",
		Check: column(func(c silver.Condition) bool {
			return c.CodeSystem == nil || *c.CodeSystem == fhir.SystemSNOMEDCT
		}),
	},
}

package rules

import (
	"math"
	"strings"

	"github.com/gofhir/etl/silver"
)

// ValidObservationStatuses are the FHIR Observation status codes.
var ValidObservationStatuses = []string{
	"registered",
	"preliminary",
	"final",
	"amended",
	"corrected",
	"cancelled",
	"entered-in-error",
	"unknown",
}

// ObservationRules validates silver observation rows.
var ObservationRules = []Rule[silver.Observation]{
	{
		Name:        "id_required",
		Description: "Observation id must not be null",
		Check: column(func(o silver.Observation) bool {
			return o.ID != nil
		}),
	},
	{
		Name:        "status_required",
		Description: "Observation status must not be null",
		Check: column(func(o silver.Observation) bool {
			return o.Status != nil
		}),
	},
	{
		// A missing status passes here; status_required already flags it.
		Name:        "status_valid",
		Description: "Observation status must be one of: " + strings.Join(ValidObservationStatuses, ", "),
		Check: column(func(o silver.Observation) bool {
			return o.Status == nil || oneOf(*o.Status, ValidObservationStatuses)
		}),
	},
	{
		Name:        "code_present",
		Description: "Observation must have a code (code_code or code_text)",
		Check: column(func(o silver.Observation) bool {
			return o.CodeCode != nil || o.CodeText != nil
		}),
	},
	{
		Name:        "subject_present",
		Description: "Observation must have a subject reference",
		Check: column(func(o silver.Observation) bool {
			return o.SubjectReference != nil
		}),
	},
	{
		Name:        "effective_format",
		Description: "effective_datetime should start with YYYY-MM-DD when present",
		Check: column(func(o silver.Observation) bool {
			return o.EffectiveDateTime == nil || hasDatePrefix(*o.EffectiveDateTime)
		}),
	},
	{
		Name:        "has_value_or_components",
		Description: "Observation should have a value or at least one component",
		Check: column(func(o silver.Observation) bool {
			return o.QuantityValue != nil ||
				o.ConceptCode != nil ||
				o.String != nil ||
				o.Boolean != nil ||
				o.Integer != nil ||
				o.DateTime != nil ||
				o.ComponentCount > 0
		}),
	},
	{
		Name:        "quantity_unit_if_value",
		Description: "If value_quantity_value is present, value_quantity_unit must be present",
		Check: column(func(o silver.Observation) bool {
			return o.QuantityValue == nil || o.QuantityUnit != nil
		}),
	},
	{
		Name:        "quantity_value_finite",
		Description: "If value_quantity_value is present, it must be finite",
		Check: column(func(o silver.Observation) bool {
			if o.QuantityValue == nil {
				return true
			}
			v := *o.QuantityValue
			return !math.IsInf(v, 0) && !math.IsNaN(v)
		}),
	},
}

package fhir

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Value types assigned by ExtractValue.
const (
	ValueTypeQuantity        = "quantity"
	ValueTypeCodeableConcept = "codeable_concept"
	ValueTypeString          = "string"
	ValueTypeBoolean         = "boolean"
	ValueTypeInteger         = "integer"
	ValueTypeDateTime        = "datetime"
)

// valueTypePriority is the probe order for the scalar value[x] variants.
// Quantity and CodeableConcept are checked structurally before these.
var valueTypePriority = []struct {
	key      string
	typeName string
}{
	{"valueString", ValueTypeString},
	{"valueBoolean", ValueTypeBoolean},
	{"valueInteger", ValueTypeInteger},
	{"valueDateTime", ValueTypeDateTime},
}

// Value is the flattened value[x] block of an Observation or one of its
// components. Type records which variant was present; the per-variant fields
// are populated from their own slots independently, so a malformed quantity
// does not suppress a well-formed codeable concept.
type Value struct {
	Type *string `json:"value_type"`

	QuantityValue  *float64 `json:"value_quantity_value"`
	QuantityUnit   *string  `json:"value_quantity_unit"`
	QuantitySystem *string  `json:"value_quantity_system"`
	QuantityCode   *string  `json:"value_quantity_code"`

	ConceptText    *string `json:"value_codeable_concept_text"`
	ConceptSystem  *string `json:"value_codeable_concept_system"`
	ConceptCode    *string `json:"value_codeable_concept_code"`
	ConceptDisplay *string `json:"value_codeable_concept_display"`

	String   *string `json:"value_string"`
	Boolean  *bool   `json:"value_boolean"`
	Integer  *int64  `json:"value_integer"`
	DateTime *string `json:"value_datetime"`
}

// Float renders a JSON number as a float64 pointer. Decoded documents carry
// numbers as json.Number; anything that fails to parse, including the
// non-finite spellings some producers emit, yields nil.
func Float(v any) *float64 {
	var s string
	switch n := v.(type) {
	case json.Number:
		s = n.String()
	case float64:
		return &n
	case string:
		s = n
	default:
		return nil
	}
	if d, err := decimal.NewFromString(s); err == nil {
		f, _ := d.Float64()
		return &f
	}
	// decimal rejects Infinity and NaN spellings; ParseFloat accepts them,
	// which lets the finiteness rule see and reject the row downstream.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return &f
	}
	return nil
}

// ExtractValue flattens the value[x] block of an Observation or component.
//
// The winning Type follows a fixed priority: a well-formed valueQuantity, then
// a detectable valueCodeableConcept, then the first present scalar variant in
// string, boolean, integer, datetime order.
func ExtractValue(resource map[string]any) Value {
	var v Value

	quantity, hasQuantity := resource["valueQuantity"].(map[string]any)
	if hasQuantity {
		v.QuantityValue = Float(quantity["value"])
		v.QuantityUnit = String(quantity["unit"])
		v.QuantitySystem = String(quantity["system"])
		v.QuantityCode = String(quantity["code"])
	}

	cc := resource["valueCodeableConcept"]
	coding := PrimaryCoding(cc)
	v.ConceptText = CodeText(cc)
	v.ConceptSystem = coding.System
	v.ConceptCode = coding.Code
	v.ConceptDisplay = coding.Display

	switch {
	case hasQuantity:
		t := ValueTypeQuantity
		v.Type = &t
	case cc != nil:
		if _, ok := cc.(map[string]any); ok {
			t := ValueTypeCodeableConcept
			v.Type = &t
		}
	}
	if v.Type == nil {
		for _, probe := range valueTypePriority {
			if val, ok := resource[probe.key]; ok && val != nil {
				t := probe.typeName
				v.Type = &t
				break
			}
		}
	}

	if val, ok := resource["valueString"]; ok && val != nil {
		v.String = String(val)
	}
	if b, ok := resource["valueBoolean"].(bool); ok {
		v.Boolean = &b
	}
	v.Integer = intValue(resource["valueInteger"])
	if val, ok := resource["valueDateTime"]; ok && val != nil {
		v.DateTime = String(val)
	}
	return v
}

// intValue accepts only integral JSON numbers.
func intValue(v any) *int64 {
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}
	i, err := n.Int64()
	if err != nil {
		return nil
	}
	return &i
}

// ExtractEffectiveDateTime resolves the effective[x] timing of an
// Observation to a single string. Instant variants are preferred in
// declaration order; an effectivePeriod falls back to "start/end", or
// whichever bound is present.
func ExtractEffectiveDateTime(resource map[string]any) *string {
	for _, key := range []string{"effectiveDateTime", "effectiveInstant", "effectiveTime"} {
		if s := truthyString(resource[key]); s != nil {
			return s
		}
	}
	period, ok := resource["effectivePeriod"].(map[string]any)
	if !ok {
		return nil
	}
	start := truthyString(period["start"])
	end := truthyString(period["end"])
	switch {
	case start != nil && end != nil:
		joined := *start + "/" + *end
		return &joined
	case start != nil:
		return start
	case end != nil:
		return end
	}
	return nil
}

package silver

import (
	"slices"

	"github.com/gofhir/etl/pkg/fhir"
)

// CategoryCoding is one coding of an Observation category, tagged with the
// index of the category concept it came from.
type CategoryCoding struct {
	CategoryIndex int64   `json:"category_index"`
	System        *string `json:"system"`
	Code          *string `json:"code"`
	Display       *string `json:"display"`
}

// Component is one flattened Observation component, tagged with its position
// in the component list.
type Component struct {
	ComponentIndex int64 `json:"component_index"`

	CodeText    *string `json:"code_text"`
	CodeSystem  *string `json:"code_system"`
	CodeCode    *string `json:"code_code"`
	CodeDisplay *string `json:"code_display"`

	fhir.Value
}

// Observation is one flattened row of the silver observation table. The
// nested coding and component lists are kept alongside the scalar columns so
// downstream consumers can reach past the primary coding when they need to.
type Observation struct {
	ID           *string `json:"id"`
	SourceFile   *string `json:"source_file"`
	SourceBundle *string `json:"source_bundle"`

	Status            *string `json:"status"`
	SubjectReference  *string `json:"subject_reference"`
	SubjectID         *string `json:"subject_id"`
	EffectiveDateTime *string `json:"effective_datetime"`
	Issued            *string `json:"issued"`

	CategoryText    *string `json:"category_text"`
	CategorySystem  *string `json:"category_system"`
	CategoryCode    *string `json:"category_code"`
	CategoryDisplay *string `json:"category_display"`

	CodeText    *string `json:"code_text"`
	CodeSystem  *string `json:"code_system"`
	CodeCode    *string `json:"code_code"`
	CodeDisplay *string `json:"code_display"`

	fhir.Value

	PerformerReferences []*string `json:"performer_references"`
	PerformerIDs        []*string `json:"performer_ids"`

	CodeCodings     []fhir.Coding    `json:"code_codings"`
	CategoryCodings []CategoryCoding `json:"category_codings"`
	Components      []Component      `json:"components"`
	ComponentCount  int64            `json:"component_count"`

	ValidationErrors []string `json:"validation_errors"`
}

// WithValidationErrors returns a copy of the row carrying errs.
func (o Observation) WithValidationErrors(errs []string) Observation {
	o.ValidationErrors = slices.Clone(errs)
	return o
}

// Errors returns the row's validation errors.
func (o Observation) Errors() []string { return o.ValidationErrors }

// TransformObservation flattens one bronze Observation row.
func TransformObservation(row map[string]any) Observation {
	codeObj := row["code"]
	code := fhir.PrimaryCoding(codeObj)
	categories := fhir.DictList(row["category"])
	performers := fhir.DictList(row["performer"])
	components := fhir.DictList(row["component"])

	subjectRef := fhir.Reference(row["subject"])

	o := Observation{
		ID:           fhir.String(row["id"]),
		SourceFile:   fhir.String(row["_source_file"]),
		SourceBundle: fhir.String(row["_source_bundle"]),

		Status:            fhir.String(row["status"]),
		SubjectReference:  subjectRef,
		SubjectID:         fhir.ReferenceID(subjectRef),
		EffectiveDateTime: fhir.ExtractEffectiveDateTime(row),
		Issued:            fhir.String(row["issued"]),

		CodeText:    fhir.CodeText(codeObj),
		CodeSystem:  code.System,
		CodeCode:    code.Code,
		CodeDisplay: code.Display,

		Value: fhir.ExtractValue(row),

		PerformerReferences: make([]*string, 0, len(performers)),
		PerformerIDs:        make([]*string, 0, len(performers)),

		CodeCodings:    fhir.AllCodings(codeObj),
		ComponentCount: int64(len(components)),

		ValidationErrors: []string{},
	}

	// The scalar category columns reflect the first category concept only.
	// Every coding of every category is kept in CategoryCodings.
	if len(categories) > 0 {
		first := fhir.PrimaryCoding(categories[0])
		o.CategoryText = fhir.CodeText(categories[0])
		o.CategorySystem = first.System
		o.CategoryCode = first.Code
		o.CategoryDisplay = first.Display
	}
	for i, cat := range categories {
		for _, coding := range fhir.AllCodings(cat) {
			o.CategoryCodings = append(o.CategoryCodings, CategoryCoding{
				CategoryIndex: int64(i),
				System:        coding.System,
				Code:          coding.Code,
				Display:       coding.Display,
			})
		}
	}

	// Performer lists stay parallel: an entry with no usable reference still
	// occupies its slot as nil.
	for _, performer := range performers {
		ref := fhir.Reference(performer)
		o.PerformerReferences = append(o.PerformerReferences, ref)
		o.PerformerIDs = append(o.PerformerIDs, fhir.ReferenceID(ref))
	}

	for i, comp := range components {
		compCode := comp["code"]
		coding := fhir.PrimaryCoding(compCode)
		o.Components = append(o.Components, Component{
			ComponentIndex: int64(i),
			CodeText:       fhir.CodeText(compCode),
			CodeSystem:     coding.System,
			CodeCode:       coding.Code,
			CodeDisplay:    coding.Display,
			Value:          fhir.ExtractValue(comp),
		})
	}

	return o
}

// TransformObservations flattens a batch of bronze Observation rows,
// preserving input order.
func TransformObservations(rows []map[string]any) []Observation {
	out := make([]Observation, 0, len(rows))
	for _, row := range rows {
		out = append(out, TransformObservation(row))
	}
	return out
}

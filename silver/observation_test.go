package silver

import "testing"

func TestTransformObservation(t *testing.T) {
	o := TransformObservation(row(t, `{
		"id": "obs-1",
		"_source_file": "bundle_01.json",
		"_source_bundle": "b-77",
		"status": "final",
		"subject": {"reference": "Patient/p1"},
		"effectiveDateTime": "2024-03-01T10:30:00Z",
		"issued": "2024-03-01T11:00:00Z",
		"category": [
			{"text": "Vitals", "coding": [
				{"system": "http://terminology.hl7.org/CodeSystem/observation-category", "code": "vital-signs", "display": "Vital Signs"},
				{"system": "http://snomed.info/sct", "code": "46680005"}
			]},
			{"coding": [{"code": "exam"}]}
		],
		"code": {
			"text": "Heart rate",
			"coding": [
				{"system": "http://loinc.org", "code": "8867-4", "display": "Heart rate"},
				{"system": "http://snomed.info/sct", "code": "364075005"}
			]
		},
		"valueQuantity": {"value": 72, "unit": "beats/minute", "system": "http://unitsofmeasure.org", "code": "/min"},
		"performer": [
			{"reference": "Practitioner/dr-1"},
			{"display": "Unknown performer"}
		],
		"component": [
			{
				"code": {"coding": [{"system": "http://loinc.org", "code": "8480-6", "display": "Systolic"}]},
				"valueQuantity": {"value": 120, "unit": "mmHg"}
			},
			{
				"code": {"text": "Position"},
				"valueString": "sitting"
			}
		]
	}`))

	eq(t, "ID", o.ID, "obs-1")
	eq(t, "Status", o.Status, "final")
	eq(t, "SubjectReference", o.SubjectReference, "Patient/p1")
	eq(t, "SubjectID", o.SubjectID, "p1")
	eq(t, "EffectiveDateTime", o.EffectiveDateTime, "2024-03-01T10:30:00Z")
	eq(t, "Issued", o.Issued, "2024-03-01T11:00:00Z")

	eq(t, "CategoryText", o.CategoryText, "Vitals")
	eq(t, "CategoryCode", o.CategoryCode, "vital-signs")
	eq(t, "CategoryDisplay", o.CategoryDisplay, "Vital Signs")

	eq(t, "CodeText", o.CodeText, "Heart rate")
	eq(t, "CodeSystem", o.CodeSystem, "http://loinc.org")
	eq(t, "CodeCode", o.CodeCode, "8867-4")

	eq(t, "Type", o.Type, "quantity")
	if o.QuantityValue == nil || *o.QuantityValue != 72 {
		t.Errorf("QuantityValue = %v, want 72", o.QuantityValue)
	}
	eq(t, "QuantityUnit", o.QuantityUnit, "beats/minute")

	if len(o.PerformerReferences) != 2 || len(o.PerformerIDs) != 2 {
		t.Fatalf("performer lists = %d/%d entries, want 2/2",
			len(o.PerformerReferences), len(o.PerformerIDs))
	}
	eq(t, "PerformerReferences[0]", o.PerformerReferences[0], "Practitioner/dr-1")
	eq(t, "PerformerIDs[0]", o.PerformerIDs[0], "dr-1")
	if o.PerformerReferences[1] != nil || o.PerformerIDs[1] != nil {
		t.Error("performer without reference should occupy a nil slot")
	}

	if len(o.CodeCodings) != 2 {
		t.Fatalf("CodeCodings = %d entries, want 2", len(o.CodeCodings))
	}
	eq(t, "CodeCodings[1].Code", o.CodeCodings[1].Code, "364075005")

	if len(o.CategoryCodings) != 3 {
		t.Fatalf("CategoryCodings = %d entries, want 3", len(o.CategoryCodings))
	}
	if o.CategoryCodings[2].CategoryIndex != 1 {
		t.Errorf("CategoryCodings[2].CategoryIndex = %d, want 1", o.CategoryCodings[2].CategoryIndex)
	}
	eq(t, "CategoryCodings[2].Code", o.CategoryCodings[2].Code, "exam")

	if o.ComponentCount != 2 || len(o.Components) != 2 {
		t.Fatalf("ComponentCount = %d (%d entries), want 2", o.ComponentCount, len(o.Components))
	}
	first, second := o.Components[0], o.Components[1]
	if first.ComponentIndex != 0 || second.ComponentIndex != 1 {
		t.Error("component indices should follow list order")
	}
	eq(t, "Components[0].CodeCode", first.CodeCode, "8480-6")
	eq(t, "Components[0].Type", first.Type, "quantity")
	if first.QuantityValue == nil || *first.QuantityValue != 120 {
		t.Errorf("Components[0].QuantityValue = %v, want 120", first.QuantityValue)
	}
	eq(t, "Components[1].CodeText", second.CodeText, "Position")
	eq(t, "Components[1].Type", second.Type, "string")
	eq(t, "Components[1].String", second.String, "sitting")
}

func TestTransformObservationPeriodAndUUIDSubject(t *testing.T) {
	o := TransformObservation(row(t, `{
		"id": "obs-2",
		"status": "preliminary",
		"subject": {"reference": "urn:uuid:pat-uuid-9"},
		"effectivePeriod": {"start": "2024-01-01", "end": "2024-01-31"},
		"code": {"coding": [{"code": "718-7"}]}
	}`))
	eq(t, "SubjectID", o.SubjectID, "pat-uuid-9")
	eq(t, "EffectiveDateTime", o.EffectiveDateTime, "2024-01-01/2024-01-31")
	isNil(t, "CategoryCode", o.CategoryCode)
	if o.ComponentCount != 0 {
		t.Errorf("ComponentCount = %d, want 0", o.ComponentCount)
	}
	if len(o.PerformerReferences) != 0 {
		t.Errorf("PerformerReferences = %v, want empty", o.PerformerReferences)
	}
}

func TestTransformObservationMalformed(t *testing.T) {
	o := TransformObservation(row(t, `{
		"id": "obs-3",
		"subject": "Patient/p1",
		"code": {"coding": {"code": "x"}},
		"valueQuantity": "not an object",
		"component": "nope"
	}`))
	isNil(t, "Status", o.Status)
	isNil(t, "SubjectReference", o.SubjectReference)
	isNil(t, "SubjectID", o.SubjectID)
	isNil(t, "CodeCode", o.CodeCode)
	isNil(t, "Type", o.Type)
	if o.ComponentCount != 0 {
		t.Errorf("ComponentCount = %d, want 0", o.ComponentCount)
	}
}

package silver

import (
	"encoding/json"
	"strings"
	"testing"
)

func row(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func eq(t *testing.T, name string, got *string, want string) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %q", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %q, want %q", name, *got, want)
	}
}

func isNil(t *testing.T, name string, got *string) {
	t.Helper()
	if got != nil {
		t.Errorf("%s = %q, want nil", name, *got)
	}
}

func TestTransformPatient(t *testing.T) {
	p := TransformPatient(row(t, `{
		"id": "p1",
		"_source_file": "bundle_01.json",
		"_source_bundle": "b-77",
		"name": [{"family": "García", "given": ["María", "José"], "text": "María José García"}],
		"birthDate": "1980-05-12",
		"gender": "female",
		"telecom": [{"system": "email", "value": "m@example.org"}, {"system": "phone", "value": "+34 600 123 456"}],
		"address": [{"line": ["Calle Mayor 1", "2A"], "city": "Madrid", "postalCode": "28001", "country": "ES"}],
		"extension": [{
			"url": "http://hl7.org/fhir/StructureDefinition/patient-nationality",
			"valueCodeableConcept": {"coding": [{"system": "urn:iso:std:iso:3166", "code": "ES"}]}
		}],
		"identifier": [
			{"system": "http://ec.europa.eu/identifier/eci", "value": "ES-99"},
			{"system": "http://local.setting.eu/identifier", "value": "MR-42"}
		]
	}`))

	eq(t, "ID", p.ID, "p1")
	eq(t, "SourceFile", p.SourceFile, "bundle_01.json")
	eq(t, "SourceBundle", p.SourceBundle, "b-77")
	eq(t, "FamilyName", p.FamilyName, "García")
	eq(t, "GivenNames", p.GivenNames, "María José")
	eq(t, "FullName", p.FullName, "María José García")
	eq(t, "BirthDate", p.BirthDate, "1980-05-12")
	eq(t, "Gender", p.Gender, "female")
	eq(t, "Phone", p.Phone, "+34 600 123 456")
	eq(t, "AddressLine", p.AddressLine, "Calle Mayor 1, 2A")
	eq(t, "City", p.City, "Madrid")
	eq(t, "PostalCode", p.PostalCode, "28001")
	eq(t, "Country", p.Country, "ES")
	eq(t, "NationalityCode", p.NationalityCode, "ES")
	eq(t, "IdentifierECI", p.IdentifierECI, "ES-99")
	eq(t, "IdentifierMR", p.IdentifierMR, "MR-42")
	if p.ValidationErrors == nil || len(p.ValidationErrors) != 0 {
		t.Errorf("ValidationErrors = %v, want empty", p.ValidationErrors)
	}
}

func TestTransformPatientSparse(t *testing.T) {
	p := TransformPatient(row(t, `{"id": "p2", "_source_file": "f.json"}`))
	eq(t, "ID", p.ID, "p2")
	isNil(t, "FamilyName", p.FamilyName)
	isNil(t, "Phone", p.Phone)
	isNil(t, "City", p.City)
	isNil(t, "NationalityCode", p.NationalityCode)
	isNil(t, "IdentifierECI", p.IdentifierECI)
}

func TestTransformPatientMalformedShapes(t *testing.T) {
	// Wrong shapes degrade to nil instead of failing.
	p := TransformPatient(row(t, `{
		"id": "p3",
		"name": "not a list",
		"telecom": [{"system": "phone"}],
		"address": {"city": "Madrid"},
		"extension": [{"url": "http://hl7.org/fhir/StructureDefinition/patient-nationality", "valueCodeableConcept": "bad"}],
		"identifier": [null, 12]
	}`))
	eq(t, "ID", p.ID, "p3")
	isNil(t, "FamilyName", p.FamilyName)
	isNil(t, "Phone", p.Phone)
	isNil(t, "City", p.City)
	isNil(t, "NationalityCode", p.NationalityCode)
	isNil(t, "IdentifierECI", p.IdentifierECI)
}

func TestPatientWithValidationErrors(t *testing.T) {
	p := TransformPatient(row(t, `{"id": "p1"}`))
	flagged := p.WithValidationErrors([]string{"has_name"})
	if len(p.ValidationErrors) != 0 {
		t.Errorf("original mutated: %v", p.ValidationErrors)
	}
	if len(flagged.Errors()) != 1 || flagged.Errors()[0] != "has_name" {
		t.Errorf("Errors() = %v, want [has_name]", flagged.Errors())
	}
}

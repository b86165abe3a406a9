package silver

import (
	"slices"

	"github.com/gofhir/etl/pkg/fhir"
)

// Patient is one flattened row of the silver patient table.
type Patient struct {
	ID           *string `json:"id"`
	SourceFile   *string `json:"source_file"`
	SourceBundle *string `json:"source_bundle"`

	FamilyName *string `json:"family_name"`
	GivenNames *string `json:"given_names"`
	FullName   *string `json:"full_name"`
	BirthDate  *string `json:"birth_date"`
	Gender     *string `json:"gender"`
	Phone      *string `json:"phone"`

	AddressLine *string `json:"address_line"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	Country     *string `json:"country"`

	NationalityCode *string `json:"nationality_code"`
	IdentifierECI   *string `json:"identifier_eci"`
	IdentifierMR    *string `json:"identifier_mr"`

	ValidationErrors []string `json:"validation_errors"`
}

// WithValidationErrors returns a copy of the row carrying errs.
func (p Patient) WithValidationErrors(errs []string) Patient {
	p.ValidationErrors = slices.Clone(errs)
	return p
}

// Errors returns the row's validation errors.
func (p Patient) Errors() []string { return p.ValidationErrors }

// TransformPatient flattens one bronze Patient row.
func TransformPatient(row map[string]any) Patient {
	names := row["name"]
	addresses := row["address"]

	var nationality *string
	if code := fhir.ExtensionValue(row["extension"], fhir.ExtensionNationality,
		"valueCodeableConcept", "coding", 0, "code"); code != nil {
		nationality = fhir.String(code)
	}

	return Patient{
		ID:           fhir.String(row["id"]),
		SourceFile:   fhir.String(row["_source_file"]),
		SourceBundle: fhir.String(row["_source_bundle"]),

		FamilyName: fhir.NameField(names, "family"),
		GivenNames: fhir.NameField(names, "given"),
		FullName:   fhir.NameField(names, "text"),
		BirthDate:  fhir.String(row["birthDate"]),
		Gender:     fhir.String(row["gender"]),
		Phone:      fhir.Telecom(row["telecom"], "phone"),

		AddressLine: fhir.AddressField(addresses, "line"),
		City:        fhir.AddressField(addresses, "city"),
		PostalCode:  fhir.AddressField(addresses, "postalCode"),
		Country:     fhir.AddressField(addresses, "country"),

		NationalityCode: nationality,
		IdentifierECI:   fhir.Identifier(row["identifier"], fhir.IdentifierSystemECI),
		IdentifierMR:    fhir.Identifier(row["identifier"], fhir.IdentifierSystemMR),

		ValidationErrors: []string{},
	}
}

// TransformPatients flattens a batch of bronze Patient rows, preserving
// input order.
func TransformPatients(rows []map[string]any) []Patient {
	out := make([]Patient, 0, len(rows))
	for _, row := range rows {
		out = append(out, TransformPatient(row))
	}
	return out
}

// Package fhir extracts plain values from raw FHIR JSON structures.
//
// FHIR resources are decoded as map[string]any and are highly optional and
// polymorphic: at every level a field may be an object, a list, a scalar, or
// absent. Every extractor in this package handles all four shapes and
// degrades to nil (or an empty collection) on any mismatch. This tolerance is
// a design requirement, not an oversight: upstream payloads are not
// guaranteed conformant, and a malformed field must become a null column, not
// an error.
//
// Resources are expected to be decoded with json.Decoder.UseNumber so that
// integer and decimal values survive extraction intact.
package fhir

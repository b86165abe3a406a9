package fhir

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Coding is one entry of a CodeableConcept's coding list.
type Coding struct {
	System  *string `json:"system"`
	Code    *string `json:"code"`
	Display *string `json:"display"`
}

// String renders a JSON scalar as a string pointer. Objects, lists and nil
// yield nil. Empty strings are kept: a present-but-empty field is not the
// same as an absent one.
func String(v any) *string {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		return &s
	case json.Number:
		str := s.String()
		return &str
	case bool:
		str := strconv.FormatBool(s)
		return &str
	case float64:
		str := strconv.FormatFloat(s, 'g', -1, 64)
		return &str
	default:
		return nil
	}
}

// truthyString is String with empty-ish scalars treated as absent.
func truthyString(v any) *string {
	s := String(v)
	if s == nil {
		return nil
	}
	switch *s {
	case "", "0", "false":
		return nil
	}
	return s
}

// DictList returns the JSON-object elements of v, which should be a JSON
// array. Non-object elements are filtered out; a non-array v yields nil.
func DictList(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// codings returns the coding entries of a CodeableConcept.
func codings(codeableConcept any) []map[string]any {
	cc, ok := codeableConcept.(map[string]any)
	if !ok {
		return nil
	}
	return DictList(cc["coding"])
}

// PrimaryCoding extracts the first coding of a CodeableConcept. "First" is
// positional: a concept may carry codings from several systems, and only the
// leading entry is kept as the primary one. All fields are nil when the
// concept or its coding list is absent or empty.
func PrimaryCoding(codeableConcept any) Coding {
	for _, coding := range codings(codeableConcept) {
		return Coding{
			System:  String(coding["system"]),
			Code:    String(coding["code"]),
			Display: String(coding["display"]),
		}
	}
	return Coding{}
}

// AllCodings extracts the full ordered coding list of a CodeableConcept.
func AllCodings(codeableConcept any) []Coding {
	entries := codings(codeableConcept)
	out := make([]Coding, 0, len(entries))
	for _, coding := range entries {
		out = append(out, Coding{
			System:  String(coding["system"]),
			Code:    String(coding["code"]),
			Display: String(coding["display"]),
		})
	}
	return out
}

// CodeText extracts the free-text field of a CodeableConcept.
func CodeText(codeableConcept any) *string {
	cc, ok := codeableConcept.(map[string]any)
	if !ok {
		return nil
	}
	return truthyString(cc["text"])
}

// Reference extracts the reference string from a FHIR Reference object.
func Reference(refObj any) *string {
	ref, ok := refObj.(map[string]any)
	if !ok {
		return nil
	}
	return truthyString(ref["reference"])
}

// ReferenceID extracts the ID portion of a FHIR reference string.
//
// Handles the usual reference formats:
//
//	"Patient/123"       -> "123"
//	"urn:uuid:abc-def"  -> "abc-def"
//	"123"               -> "123"
func ReferenceID(reference *string) *string {
	if reference == nil || *reference == "" {
		return nil
	}
	ref := *reference
	if rest, ok := strings.CutPrefix(ref, "urn:uuid:"); ok {
		if rest == "" {
			return nil
		}
		return &rest
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		tail := ref[i+1:]
		if tail == "" {
			return nil
		}
		return &tail
	}
	return &ref
}

// findInListByField returns returnField of the first list entry whose
// matchField equals matchValue.
func findInListByField(items any, matchField, matchValue, returnField string) *string {
	for _, item := range DictList(items) {
		if v, ok := item[matchField].(string); ok && v == matchValue {
			return String(item[returnField])
		}
	}
	return nil
}

// Identifier extracts an identifier value by system from a FHIR identifier
// array.
func Identifier(identifierList any, system string) *string {
	return findInListByField(identifierList, "system", system, "value")
}

// Telecom extracts a telecom value by system (e.g. "phone") from a FHIR
// telecom array.
func Telecom(telecomList any, system string) *string {
	return findInListByField(telecomList, "system", system, "value")
}

// fieldFromList extracts a field from the first list entry that carries it.
// List-valued fields are joined with sep into a single string.
func fieldFromList(items any, field, sep string) *string {
	for _, item := range DictList(items) {
		value, ok := item[field]
		if !ok {
			continue
		}
		if list, ok := value.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, v := range list {
				if s := String(v); s != nil {
					parts = append(parts, *s)
				}
			}
			joined := strings.Join(parts, sep)
			return &joined
		}
		return truthyString(value)
	}
	return nil
}

// AddressField extracts a field from the first FHIR address. Repeated fields
// such as "line" are joined with ", ".
func AddressField(addressList any, field string) *string {
	return fieldFromList(addressList, field, ", ")
}

// NameField extracts a field from the FHIR name array. Repeated fields such
// as "given" are joined with " ".
func NameField(nameList any, field string) *string {
	return fieldFromList(nameList, field, " ")
}

// ExtensionValue locates the extension with the given url and walks path
// (string keys and int list indices) into its payload. This follows FHIR's
// convention of wrapping polymorphic extension values, e.g.
//
//	ExtensionValue(exts, url, "valueCodeableConcept", "coding", 0, "code")
//
// Returns nil when the extension is missing or any path segment does not
// match the value's shape.
func ExtensionValue(extensionList any, url string, path ...any) any {
	for _, ext := range DictList(extensionList) {
		if u, ok := ext["url"].(string); !ok || u != url {
			continue
		}
		var value any = ext
		for _, key := range path {
			switch cur := value.(type) {
			case map[string]any:
				k, ok := key.(string)
				if !ok {
					return nil
				}
				value = cur[k]
			case []any:
				i, ok := key.(int)
				if !ok {
					return nil
				}
				if i < 0 || i >= len(cur) {
					value = nil
				} else {
					value = cur[i]
				}
			default:
				return nil
			}
		}
		return value
	}
	return nil
}

// CategoryCode scans a list of CodeableConcepts in declaration order and
// returns the code and display of the first one whose primary coding carries
// a non-empty code.
func CategoryCode(categoryList any) (code, display *string) {
	for _, cat := range DictList(categoryList) {
		coding := PrimaryCoding(cat)
		if coding.Code != nil && *coding.Code != "" {
			return coding.Code, coding.Display
		}
	}
	return nil, nil
}

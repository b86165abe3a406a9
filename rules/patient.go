package rules

import (
	"regexp"
	"strings"

	"github.com/gofhir/etl/silver"
)

// ValidGenders are the FHIR administrative gender codes.
var ValidGenders = []string{"male", "female", "other", "unknown"}

var (
	dateRE       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	datePrefixRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	digitRE      = regexp.MustCompile(`\d`)
)

// isDate reports whether s is exactly YYYY-MM-DD.
func isDate(s string) bool { return dateRE.MatchString(s) }

// hasDatePrefix reports whether s starts with YYYY-MM-DD, which covers both
// date and datetime strings.
func hasDatePrefix(s string) bool { return datePrefixRE.MatchString(s) }

func oneOf(s string, valid []string) bool {
	for _, v := range valid {
		if s == v {
			return true
		}
	}
	return false
}

// PatientRules validates silver patient rows.
var PatientRules = []Rule[silver.Patient]{
	{
		Name:        "id_required",
		Description: "Patient ID must not be null",
		Check: column(func(p silver.Patient) bool {
			return p.ID != nil
		}),
	},
	{
		Name:        "birth_date_format",
		Description: "Birth date must be in YYYY-MM-DD format",
		Check: column(func(p silver.Patient) bool {
			return p.BirthDate == nil || isDate(*p.BirthDate)
		}),
	},
	{
		Name:        "gender_valid",
		Description: "Gender must be one of: " + strings.Join(ValidGenders, ", "),
		Check: column(func(p silver.Patient) bool {
			return p.Gender == nil || oneOf(*p.Gender, ValidGenders)
		}),
	},
	{
		Name:        "phone_format",
		Description: "Phone must contain at least one digit",
		Check: column(func(p silver.Patient) bool {
			return p.Phone == nil || digitRE.MatchString(*p.Phone)
		}),
	},
	{
		Name:        "has_name",
		Description: "Patient must have at least one name component",
		Check: column(func(p silver.Patient) bool {
			return p.FamilyName != nil || p.GivenNames != nil || p.FullName != nil
		}),
	},
}

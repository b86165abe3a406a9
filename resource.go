package fhiretl

// ResourceType identifies a FHIR resource type handled by the silver layer.
type ResourceType string

// Silver-layer resource types.
const (
	// ResourcePatient is the FHIR Patient resource.
	ResourcePatient ResourceType = "Patient"
	// ResourceObservation is the FHIR Observation resource.
	ResourceObservation ResourceType = "Observation"
	// ResourceCondition is the FHIR Condition resource.
	ResourceCondition ResourceType = "Condition"
)

// String returns the FHIR resource type name.
func (r ResourceType) String() string {
	return string(r)
}

// IsValid returns true if this resource type has a silver-layer model.
func (r ResourceType) IsValid() bool {
	switch r {
	case ResourcePatient, ResourceObservation, ResourceCondition:
		return true
	default:
		return false
	}
}

// resourceConfig holds per-resource-type table configuration.
type resourceConfig struct {
	// BronzeTable is the table name under the bronze schema.
	BronzeTable string

	// SilverTable is the table name under the silver schema.
	SilverTable string
}

// resourceConfigs maps resource types to their table configuration.
var resourceConfigs = map[ResourceType]resourceConfig{
	ResourcePatient: {
		BronzeTable: "patient",
		SilverTable: "patient",
	},
	ResourceObservation: {
		BronzeTable: "observation",
		SilverTable: "observation",
	},
	ResourceCondition: {
		BronzeTable: "condition",
		SilverTable: "condition",
	},
}

// BronzeTable returns the bronze-layer table name for this resource type,
// or "" for types without a silver-layer model.
func (r ResourceType) BronzeTable() string {
	return resourceConfigs[r].BronzeTable
}

// SilverTable returns the silver-layer table name for this resource type,
// or "" for types without a silver-layer model.
func (r ResourceType) SilverTable() string {
	return resourceConfigs[r].SilverTable
}

// SilverResourceTypes returns the resource types modeled in the silver layer,
// in a fixed order.
func SilverResourceTypes() []ResourceType {
	return []ResourceType{ResourcePatient, ResourceObservation, ResourceCondition}
}

package fhir

// Common FHIR code system URIs.
const (
	// SystemLOINC is the LOINC code system.
	SystemLOINC = "http://loinc.org"
	// SystemSNOMEDCT is the SNOMED CT code system.
	SystemSNOMEDCT = "http://snomed.info/sct"
	// SystemICD10 is the ICD-10 code system.
	SystemICD10 = "http://hl7.org/fhir/sid/icd-10"
	// SystemICD10CM is the ICD-10-CM code system.
	SystemICD10CM = "http://hl7.org/fhir/sid/icd-10-cm"
	// SystemUCUM is the UCUM units-of-measure system.
	SystemUCUM = "http://unitsofmeasure.org"
	// SystemObservationCategory is the HL7 observation category system.
	SystemObservationCategory = "http://terminology.hl7.org/CodeSystem/observation-category"
	// SystemConditionCategory is the HL7 condition category system.
	SystemConditionCategory = "http://terminology.hl7.org/CodeSystem/condition-category"
)

// Identifier system URIs used by the patient transform.
const (
	// IdentifierSystemECI is the European Citizen Identifier system.
	IdentifierSystemECI = "http://ec.europa.eu/identifier/eci"
	// IdentifierSystemMR is the local medical record identifier system.
	IdentifierSystemMR = "http://local.setting.eu/identifier"
)

// Extension URLs used by the patient transform.
const (
	// ExtensionNationality is the patient-nationality extension.
	ExtensionNationality = "http://hl7.org/fhir/StructureDefinition/patient-nationality"
)

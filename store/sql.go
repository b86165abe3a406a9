package store

import (
	"fmt"
	"strings"
)

// quoteIdent quotes a SQL identifier, doubling embedded quotes.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func qualifiedTable(schema, table string) string {
	return quoteIdent(schema) + "." + quoteIdent(table)
}

func createSchemaSQL(schema string) string {
	return "CREATE SCHEMA IF NOT EXISTS " + quoteIdent(schema)
}

func createBronzeTableSQL(table string) string {
	return fmt.Sprintf(`CREATE OR REPLACE TABLE %s (
		source_file VARCHAR,
		source_bundle VARCHAR,
		full_url VARCHAR,
		resource JSON
	)`, qualifiedTable(SchemaBronze, table))
}

func insertBronzeSQL(table string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (source_file, source_bundle, full_url, resource) VALUES (?, ?, ?, ?)",
		qualifiedTable(SchemaBronze, table))
}

func createPatientTableSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE TABLE %s (
		id VARCHAR,
		source_file VARCHAR,
		source_bundle VARCHAR,
		family_name VARCHAR,
		given_names VARCHAR,
		full_name VARCHAR,
		birth_date VARCHAR,
		gender VARCHAR,
		phone VARCHAR,
		address_line VARCHAR,
		city VARCHAR,
		postal_code VARCHAR,
		country VARCHAR,
		nationality_code VARCHAR,
		identifier_eci VARCHAR,
		identifier_mr VARCHAR,
		validation_errors JSON
	)`, qualifiedTable(SchemaSilver, "patient"))
}

func insertPatientSQL() string {
	return fmt.Sprintf(`INSERT INTO %s (
		id, source_file, source_bundle,
		family_name, given_names, full_name,
		birth_date, gender, phone,
		address_line, city, postal_code, country,
		nationality_code, identifier_eci, identifier_mr,
		validation_errors
	) VALUES (%s)`, qualifiedTable(SchemaSilver, "patient"), placeholders(17))
}

func createConditionTableSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE TABLE %s (
		id VARCHAR,
		source_file VARCHAR,
		source_bundle VARCHAR,
		patient_id VARCHAR,
		patient_display VARCHAR,
		category_code VARCHAR,
		category_display VARCHAR,
		code_system VARCHAR,
		code VARCHAR,
		code_display VARCHAR,
		code_text VARCHAR,
		onset_date VARCHAR,
		abatement_date VARCHAR,
		asserter_display VARCHAR,
		validation_errors JSON
	)`, qualifiedTable(SchemaSilver, "condition"))
}

func insertConditionSQL() string {
	return fmt.Sprintf(`INSERT INTO %s (
		id, source_file, source_bundle,
		patient_id, patient_display,
		category_code, category_display,
		code_system, code, code_display, code_text,
		onset_date, abatement_date, asserter_display,
		validation_errors
	) VALUES (%s)`, qualifiedTable(SchemaSilver, "condition"), placeholders(15))
}

func createObservationTableSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE TABLE %s (
		id VARCHAR,
		source_file VARCHAR,
		source_bundle VARCHAR,
		status VARCHAR,
		subject_reference VARCHAR,
		subject_id VARCHAR,
		effective_datetime VARCHAR,
		issued VARCHAR,
		category_text VARCHAR,
		category_system VARCHAR,
		category_code VARCHAR,
		category_display VARCHAR,
		code_text VARCHAR,
		code_system VARCHAR,
		code_code VARCHAR,
		code_display VARCHAR,
		value_type VARCHAR,
		value_quantity_value DOUBLE,
		value_quantity_unit VARCHAR,
		value_quantity_system VARCHAR,
		value_quantity_code VARCHAR,
		value_codeable_concept_text VARCHAR,
		value_codeable_concept_system VARCHAR,
		value_codeable_concept_code VARCHAR,
		value_codeable_concept_display VARCHAR,
		value_string VARCHAR,
		value_boolean BOOLEAN,
		value_integer BIGINT,
		value_datetime VARCHAR,
		performer_references JSON,
		performer_ids JSON,
		code_codings JSON,
		category_codings JSON,
		components JSON,
		component_count BIGINT,
		validation_errors JSON
	)`, qualifiedTable(SchemaSilver, "observation"))
}

func insertObservationSQL() string {
	return fmt.Sprintf(`INSERT INTO %s (
		id, source_file, source_bundle,
		status, subject_reference, subject_id,
		effective_datetime, issued,
		category_text, category_system, category_code, category_display,
		code_text, code_system, code_code, code_display,
		value_type,
		value_quantity_value, value_quantity_unit, value_quantity_system, value_quantity_code,
		value_codeable_concept_text, value_codeable_concept_system, value_codeable_concept_code, value_codeable_concept_display,
		value_string, value_boolean, value_integer, value_datetime,
		performer_references, performer_ids,
		code_codings, category_codings, components,
		component_count,
		validation_errors
	) VALUES (%s)`, qualifiedTable(SchemaSilver, "observation"), placeholders(36))
}

func createGoldTableSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE TABLE %s (
		patient_id VARCHAR,
		observation_count BIGINT,
		birth_date DATE,
		patient_age_years BIGINT
	)`, qualifiedTable(SchemaGold, "observations_per_patient"))
}

func insertGoldSQL() string {
	return fmt.Sprintf(
		"INSERT INTO %s (patient_id, observation_count, birth_date, patient_age_years) VALUES (%s)",
		qualifiedTable(SchemaGold, "observations_per_patient"), placeholders(4))
}

func createRunsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS etl_runs (
		run_id VARCHAR,
		started_at TIMESTAMP,
		finished_at TIMESTAMP,
		input_dir VARCHAR,
		bundles INTEGER,
		resources INTEGER,
		status VARCHAR,
		error VARCHAR
	)`
}

func insertRunSQL() string {
	return fmt.Sprintf(
		"INSERT INTO etl_runs (run_id, started_at, finished_at, input_dir, bundles, resources, status, error) VALUES (%s)",
		placeholders(8))
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

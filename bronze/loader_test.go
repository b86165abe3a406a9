package bronze

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const sampleBundle = `{
	"resourceType": "Bundle",
	"id": "bundle-1",
	"type": "collection",
	"entry": [
		{
			"fullUrl": "urn:uuid:pat-1",
			"resource": {"resourceType": "Patient", "id": "p1", "gender": "female"}
		},
		{
			"fullUrl": "urn:uuid:obs-1",
			"resource": {
				"resourceType": "Observation",
				"id": "o1",
				"status": "final",
				"valueQuantity": {"value": 7.2}
			}
		},
		{
			"resource": {"resourceType": "Condition", "id": "c1"}
		}
	]
}`

func TestParse(t *testing.T) {
	bundle, err := Parse("sample.json", []byte(sampleBundle))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if bundle.BundleID == nil || *bundle.BundleID != "bundle-1" {
		t.Errorf("BundleID = %v, want bundle-1", bundle.BundleID)
	}
	if len(bundle.Resources) != 3 {
		t.Fatalf("Parse() yielded %d resources, want 3", len(bundle.Resources))
	}

	pat := bundle.Resources[0]
	if pat.Type != "Patient" {
		t.Errorf("Resources[0].Type = %q, want Patient", pat.Type)
	}
	if pat.FullURL == nil || *pat.FullURL != "urn:uuid:pat-1" {
		t.Errorf("Resources[0].FullURL = %v, want urn:uuid:pat-1", pat.FullURL)
	}
	if got := pat.Row[KeySourceFile]; got != "sample.json" {
		t.Errorf("row[%s] = %v, want sample.json", KeySourceFile, got)
	}
	if got := pat.Row[KeySourceBundle]; got != "bundle-1" {
		t.Errorf("row[%s] = %v, want bundle-1", KeySourceBundle, got)
	}
	if got := pat.Row["gender"]; got != "female" {
		t.Errorf("row[gender] = %v, want female", got)
	}

	cond := bundle.Resources[2]
	if cond.FullURL != nil {
		t.Errorf("Resources[2].FullURL = %v, want nil", *cond.FullURL)
	}
	if got := cond.Row[KeyFullURL]; got != nil {
		t.Errorf("row[%s] = %v, want nil", KeyFullURL, got)
	}

	// Numbers must survive as json.Number, not float64.
	obs := bundle.Resources[1]
	quantity, ok := obs.Row["valueQuantity"].(map[string]any)
	if !ok {
		t.Fatalf("valueQuantity = %T, want object", obs.Row["valueQuantity"])
	}
	if _, ok := quantity["value"].(json.Number); !ok {
		t.Errorf("quantity value = %T, want json.Number", quantity["value"])
	}
}

func TestParseEdgeShapes(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantCount int
		wantErr   bool
	}{
		{"no entry key", `{"resourceType": "Bundle", "id": "b"}`, 0, false},
		{"empty entry list", `{"resourceType": "Bundle", "entry": []}`, 0, false},
		{"entry without resource", `{"entry": [{"fullUrl": "urn:uuid:x"}]}`, 0, false},
		{"resource without type", `{"entry": [{"resource": {"id": "x"}}]}`, 0, false},
		{"resource is not an object", `{"entry": [{"resource": "Patient"}]}`, 0, false},
		{"entry is not an object", `{"entry": ["junk", {"resource": {"resourceType": "Patient", "id": "p"}}]}`, 1, false},
		{"not json at all", `{{{`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, err := Parse("f.json", []byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(bundle.Resources) != tt.wantCount {
				t.Errorf("Parse() yielded %d resources, want %d", len(bundle.Resources), tt.wantCount)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("b_bundle.json", `{"id": "b2", "entry": [{"resource": {"resourceType": "Observation", "id": "o1"}}]}`)
	write("a_bundle.json", `{"id": "b1", "entry": [{"resource": {"resourceType": "Patient", "id": "p1"}}]}`)
	write("notes.txt", "ignored")

	bundles, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if len(bundles) != 2 {
		t.Fatalf("LoadDir() yielded %d bundles, want 2", len(bundles))
	}
	// Name order is the processing order.
	if *bundles[0].BundleID != "b1" || *bundles[1].BundleID != "b2" {
		t.Errorf("bundle order = %v, %v; want b1, b2", *bundles[0].BundleID, *bundles[1].BundleID)
	}

	grouped := GroupByType(bundles)
	if len(grouped["Patient"]) != 1 || len(grouped["Observation"]) != 1 {
		t.Errorf("GroupByType() = %d patients, %d observations; want 1 each",
			len(grouped["Patient"]), len(grouped["Observation"]))
	}
	if got := TotalResources(bundles); got != 2 {
		t.Errorf("TotalResources() = %d, want 2", got)
	}
	if counts := CountByType(bundles); counts["Patient"] != 1 {
		t.Errorf("CountByType()[Patient] = %d, want 1", counts["Patient"])
	}
}

func TestLoadDirEmpty(t *testing.T) {
	bundles, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if len(bundles) != 0 {
		t.Errorf("LoadDir() yielded %d bundles, want 0", len(bundles))
	}
}

func TestLoadDirPropagatesParseFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Error("LoadDir() expected error for malformed bundle")
	}
}

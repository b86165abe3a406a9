// Package bronze ingests FHIR Bundle JSON files into raw per-resource-type
// row sets. Resources are kept as decoded JSON objects with no flattening;
// each row is tagged with its provenance (source file, bundle id, entry
// fullUrl) so every downstream record can be traced back to its origin.
package bronze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buger/jsonparser"
)

// Metadata keys added to every bronze row.
const (
	KeySourceFile   = "_source_file"
	KeySourceBundle = "_source_bundle"
	KeyFullURL      = "_full_url"
)

// Resource is one bundle entry's resource, tagged with provenance. Row holds
// the decoded resource object plus the metadata keys.
type Resource struct {
	Type    string
	FullURL *string
	Row     map[string]any
}

// BundleFile is the parsed content of one bundle JSON file.
type BundleFile struct {
	Path      string
	BundleID  *string
	Resources []Resource
}

// Parse extracts the resources of a bundle document. sourceFile is the file
// name recorded in each row's provenance. Entries whose resource carries no
// resourceType are skipped; a document that is not valid JSON is an error.
func Parse(sourceFile string, data []byte) (*BundleFile, error) {
	bundle := &BundleFile{Path: sourceFile}

	if id, err := jsonparser.GetString(data, "id"); err == nil {
		bundle.BundleID = &id
	}

	var entryErr error
	_, err := jsonparser.ArrayEach(data, func(entry []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if entryErr != nil || dataType != jsonparser.Object {
			return
		}
		resource, err := parseEntry(sourceFile, bundle.BundleID, entry)
		if err != nil {
			entryErr = err
			return
		}
		if resource != nil {
			bundle.Resources = append(bundle.Resources, *resource)
		}
	}, "entry")
	if entryErr != nil {
		return nil, fmt.Errorf("bundle %s: %w", sourceFile, entryErr)
	}
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, fmt.Errorf("bundle %s: %w", sourceFile, err)
	}

	return bundle, nil
}

// parseEntry decodes one bundle entry. Returns nil for entries that carry no
// typed resource.
func parseEntry(sourceFile string, bundleID *string, entry []byte) (*Resource, error) {
	raw, dataType, _, err := jsonparser.Get(entry, "resource")
	if err != nil || dataType != jsonparser.Object {
		return nil, nil
	}

	var fullURL *string
	if u, err := jsonparser.GetString(entry, "fullUrl"); err == nil {
		fullURL = &u
	}

	row, err := decodeResource(raw)
	if err != nil {
		return nil, err
	}

	resourceType, _ := row["resourceType"].(string)
	if resourceType == "" {
		return nil, nil
	}

	// Provenance keys never shadow resource fields of the same name.
	setIfAbsent(row, KeySourceFile, sourceFile)
	if bundleID != nil {
		setIfAbsent(row, KeySourceBundle, *bundleID)
	} else {
		setIfAbsent(row, KeySourceBundle, nil)
	}
	if fullURL != nil {
		setIfAbsent(row, KeyFullURL, *fullURL)
	} else {
		setIfAbsent(row, KeyFullURL, nil)
	}

	return &Resource{Type: resourceType, FullURL: fullURL, Row: row}, nil
}

// decodeResource unmarshals a resource object. Numbers are kept as
// json.Number so integral and decimal values stay distinguishable.
func decodeResource(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var row map[string]any
	if err := dec.Decode(&row); err != nil {
		return nil, fmt.Errorf("decode resource: %w", err)
	}
	return row, nil
}

func setIfAbsent(row map[string]any, key string, value any) {
	if _, ok := row[key]; !ok {
		row[key] = value
	}
}

// ParseFile reads and parses one bundle file. The file's base name, not its
// full path, is recorded as provenance.
func ParseFile(path string) (*BundleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	return Parse(filepath.Base(path), data)
}

// FileParser parses bundle files from disk. It satisfies the worker pool's
// Parser interface.
type FileParser struct{}

// ParseFile implements the worker Parser contract.
func (FileParser) ParseFile(ctx context.Context, path string) (*BundleFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseFile(path)
}

package bronze

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Discover lists the bundle JSON files of a directory in name order. An
// empty directory yields an empty slice, not an error.
func Discover(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("discover bundles in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadDir parses every bundle file of a directory in name order. Any file
// that fails to parse fails the whole load.
func LoadDir(dir string) ([]*BundleFile, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	bundles := make([]*BundleFile, 0, len(paths))
	for _, path := range paths {
		bundle, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, bundle)
	}
	return bundles, nil
}

// GroupByType collects the rows of a set of parsed bundles keyed by resource
// type, preserving bundle order and entry order within each bundle.
func GroupByType(bundles []*BundleFile) map[string][]map[string]any {
	grouped := make(map[string][]map[string]any)
	for _, bundle := range bundles {
		for _, resource := range bundle.Resources {
			grouped[resource.Type] = append(grouped[resource.Type], resource.Row)
		}
	}
	return grouped
}

// CountByType tallies resources per type across a set of parsed bundles.
func CountByType(bundles []*BundleFile) map[string]int {
	counts := make(map[string]int)
	for _, bundle := range bundles {
		for _, resource := range bundle.Resources {
			counts[resource.Type]++
		}
	}
	return counts
}

// TotalResources counts every typed resource across a set of parsed bundles.
func TotalResources(bundles []*BundleFile) int {
	total := 0
	for _, bundle := range bundles {
		total += len(bundle.Resources)
	}
	return total
}

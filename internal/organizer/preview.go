package organizer

import (
	"path/filepath"
	"sort"

	"animelibrarian/internal/fsx"
)

// Preview describes what executing a plan would change, for display before
// confirmation.
type Preview struct {
	Plan MovePlan
	// NewDirectories are destination directories that do not exist yet.
	NewDirectories []string
	// ExistingDestinations are destinations already occupied; those moves
	// will fail because the executor never overwrites.
	ExistingDestinations []string
}

// NewPreview probes the filesystem for the plan's missing directories and
// occupied destinations.
func NewPreview(plan MovePlan) (Preview, error) {
	dirs, err := MissingDirectories(plan)
	if err != nil {
		return Preview{}, err
	}
	existing, err := ExistingDestinations(plan)
	if err != nil {
		return Preview{}, err
	}
	return Preview{Plan: plan, NewDirectories: dirs, ExistingDestinations: existing}, nil
}

// MissingDirectories returns the sorted, unique destination parent
// directories that do not exist.
func MissingDirectories(plan MovePlan) ([]string, error) {
	seen := make(map[string]struct{})
	var missing []string
	for _, move := range plan.Moves {
		dir := filepath.Dir(move.DestinationPath)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		ok, err := fsx.IsDir(dir)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, dir)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

// ExistingDestinations returns destinations that are already present, in
// plan order.
func ExistingDestinations(plan MovePlan) ([]string, error) {
	var existing []string
	for _, move := range plan.Moves {
		ok, err := fsx.Exists(move.DestinationPath)
		if err != nil {
			return nil, err
		}
		if ok {
			existing = append(existing, move.DestinationPath)
		}
	}
	return existing, nil
}

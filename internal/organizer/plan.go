package organizer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"animelibrarian/internal/services"
)

// MovePlan is an ordered set of moves with unique sources and destinations,
// sorted by source file name.
type MovePlan struct {
	Moves []ValidatedMove
}

// Len returns the number of moves.
func (p MovePlan) Len() int { return len(p.Moves) }

// Empty reports whether there is nothing to do.
func (p MovePlan) Empty() bool { return len(p.Moves) == 0 }

// ConflictKind names the invariant a conflict violates.
type ConflictKind string

const (
	ConflictDuplicateSource      ConflictKind = "duplicate_source"
	ConflictDuplicateDestination ConflictKind = "duplicate_destination"
)

// Conflict groups the moves that share one source or one destination.
type Conflict struct {
	Kind ConflictKind
	// Path is the shared source or destination path.
	Path         string
	Sources      []string
	Destinations []string
}

func (c Conflict) String() string {
	switch c.Kind {
	case ConflictDuplicateSource:
		return fmt.Sprintf("%s proposed %d times: %s", c.Sources[0], len(c.Destinations), strings.Join(c.Destinations, ", "))
	default:
		return fmt.Sprintf("%s claimed by %s", c.Destinations[0], strings.Join(c.Sources, ", "))
	}
}

// PlanConflictError aborts planning. It lists every conflict found.
type PlanConflictError struct {
	Conflicts []Conflict
}

func (e *PlanConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("move plan has %d conflict(s): %s", len(e.Conflicts), strings.Join(parts, "; "))
}

func (e *PlanConflictError) Is(target error) bool {
	return target == services.ErrConflict
}

// Build validates and orders moves. A source named by more than one move, or
// a destination claimed by more than one source, fails the whole plan; every
// such conflict is reported. Destinations are compared after path cleaning
// and Unicode NFC normalization.
func Build(moves []ValidatedMove) (MovePlan, error) {
	bySource := make(map[string][]ValidatedMove, len(moves))
	byDestination := make(map[string][]ValidatedMove, len(moves))
	for _, move := range moves {
		srcKey := filepath.Clean(move.SourcePath)
		bySource[srcKey] = append(bySource[srcKey], move)
		dstKey := destinationKey(move.DestinationPath)
		byDestination[dstKey] = append(byDestination[dstKey], move)
	}

	var conflicts []Conflict
	for key, group := range bySource {
		if len(group) > 1 {
			conflicts = append(conflicts, sourceConflict(key, group))
		}
	}
	for _, group := range byDestination {
		if c, ok := destinationConflict(group); ok {
			conflicts = append(conflicts, c)
		}
	}
	if len(conflicts) > 0 {
		sort.Slice(conflicts, func(i, j int) bool {
			if conflicts[i].Kind != conflicts[j].Kind {
				return conflicts[i].Kind < conflicts[j].Kind
			}
			return conflicts[i].Path < conflicts[j].Path
		})
		return MovePlan{}, &PlanConflictError{Conflicts: conflicts}
	}

	planned := append([]ValidatedMove(nil), moves...)
	sort.Slice(planned, func(i, j int) bool {
		if planned[i].SourceName != planned[j].SourceName {
			return planned[i].SourceName < planned[j].SourceName
		}
		return planned[i].SourcePath < planned[j].SourcePath
	})
	return MovePlan{Moves: planned}, nil
}

func destinationKey(path string) string {
	return norm.NFC.String(filepath.Clean(path))
}

// sourceConflict lists one source with every destination proposed for it,
// repeats included.
func sourceConflict(path string, group []ValidatedMove) Conflict {
	c := Conflict{Kind: ConflictDuplicateSource, Path: path, Sources: []string{group[0].SourceName}}
	for _, move := range group {
		c.Destinations = append(c.Destinations, move.Destination())
	}
	sort.Strings(c.Destinations)
	return c
}

// destinationConflict reports a destination shared by distinct sources. A
// group whose moves all come from one source is already a source conflict.
func destinationConflict(group []ValidatedMove) (Conflict, bool) {
	seen := make(map[string]struct{}, len(group))
	var sources []string
	for _, move := range group {
		key := filepath.Clean(move.SourcePath)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		sources = append(sources, move.SourceName)
	}
	if len(sources) < 2 {
		return Conflict{}, false
	}
	sort.Strings(sources)
	return Conflict{
		Kind:         ConflictDuplicateDestination,
		Path:         group[0].DestinationPath,
		Sources:      sources,
		Destinations: []string{group[0].Destination()},
	}, true
}

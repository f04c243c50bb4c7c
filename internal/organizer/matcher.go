package organizer

import (
	"path/filepath"
	"strings"

	"animelibrarian/internal/media"
)

// Matcher validates proposals against a source snapshot. It performs no I/O.
type Matcher struct {
	SourceDir  string
	TargetDir  string
	Extensions media.ExtensionSet
	// Categories is the target snapshot, used only to flag new categories.
	Categories []media.CategoryDirectory
}

// MatchResult partitions the proposals of one run. Every input proposal lands
// in exactly one of the three slices, in input order.
type MatchResult struct {
	Matched   []ValidatedMove
	Unmatched []*ValidationError
	// Ignored holds proposals for files the tool does not manage.
	Ignored []Proposal
}

// Match resolves each proposal to a move. Proposals naming an unsupported
// extension are ignored; unknown sources and malformed destinations are
// returned as validation errors.
func (m Matcher) Match(proposals []Proposal, known []media.FileEntry) MatchResult {
	files := make(map[string]media.FileEntry, len(known))
	for _, file := range known {
		files[file.Name] = file
	}
	categories := make(map[string]struct{}, len(m.Categories))
	for _, dir := range m.Categories {
		categories[dir.Name] = struct{}{}
	}

	var result MatchResult
	for _, proposal := range proposals {
		if strings.TrimSpace(proposal.OriginalName) != "" && !m.Extensions.Supports(proposal.OriginalName) {
			result.Ignored = append(result.Ignored, proposal)
			continue
		}

		file, ok := files[proposal.OriginalName]
		if !ok {
			result.Unmatched = append(result.Unmatched, &ValidationError{
				Proposal: proposal,
				Reason:   ReasonUnknownSource,
				Detail:   "source file not found in scanned files",
			})
			continue
		}

		category, name, detail := splitDestination(proposal.NewName)
		if detail != "" {
			result.Unmatched = append(result.Unmatched, &ValidationError{
				Proposal: proposal,
				Reason:   ReasonMalformedDestination,
				Detail:   detail,
			})
			continue
		}

		_, exists := categories[category]
		result.Matched = append(result.Matched, ValidatedMove{
			SourceName:      file.Name,
			Kind:            file.Kind,
			Category:        category,
			FileName:        name,
			SourcePath:      filepath.Join(m.SourceDir, file.Name),
			DestinationPath: filepath.Join(m.TargetDir, category, name),
			NewCategory:     !exists,
		})
	}
	return result
}

// splitDestination parses "<category>/<filename>". A non-empty detail
// describes why the value was rejected.
func splitDestination(value string) (category, name, detail string) {
	if strings.ContainsRune(value, '\x00') {
		return "", "", "destination contains a NUL byte"
	}
	if strings.ContainsRune(value, '\\') {
		return "", "", "destination must use '/' as separator"
	}
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return "", "", "destination must have the form <category>/<filename>"
	}
	for i, part := range parts {
		label := "category"
		if i == 1 {
			label = "filename"
		}
		switch {
		case strings.TrimSpace(part) == "":
			return "", "", "destination " + label + " is empty"
		case part == "." || part == "..":
			return "", "", "destination " + label + " must not be a relative path element"
		}
	}
	return parts[0], parts[1], ""
}

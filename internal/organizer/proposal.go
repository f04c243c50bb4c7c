package organizer

import (
	"fmt"
	"path/filepath"

	"animelibrarian/internal/media"
	"animelibrarian/internal/services"
)

// Proposal is an AI-suggested rename. It is untrusted until matched.
type Proposal struct {
	OriginalName string `json:"original_name"`
	NewName      string `json:"new_name"`
}

// Reason classifies why a proposal was rejected.
type Reason string

const (
	ReasonUnknownSource        Reason = "unknown_source"
	ReasonMalformedDestination Reason = "malformed_destination"
)

// ValidationError reports a proposal that cannot become a move.
type ValidationError struct {
	Proposal Proposal
	Reason   Reason
	Detail   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid proposal %q -> %q: %s", e.Proposal.OriginalName, e.Proposal.NewName, e.Detail)
}

func (e *ValidationError) Is(target error) bool {
	return target == services.ErrValidation
}

// ValidatedMove is a proposal resolved against the source snapshot.
type ValidatedMove struct {
	SourceName      string
	Kind            media.Kind
	Category        string
	FileName        string
	SourcePath      string
	DestinationPath string
	// NewCategory is set when Category was not among the scanned target directories.
	NewCategory bool
}

// Destination returns the destination relative to the target root.
func (m ValidatedMove) Destination() string {
	return filepath.Join(m.Category, m.FileName)
}

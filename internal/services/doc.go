// Package services defines shared utilities consumed by the run stages and
// the external AI workflow integration.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is regardless of where they were produced.
package services

// Package organizer turns AI rename proposals into filesystem moves.
//
// The pipeline has three stages. Matcher checks each untrusted proposal
// against the scanned source snapshot and the shape of its destination.
// Build aggregates the surviving moves into a sorted MovePlan and refuses
// plans where two entries share a source or a destination. Executor applies
// the plan one entry at a time, creating category directories on demand,
// never overwriting an existing file, and recording a MoveResult per entry.
//
// Matching and planning are pure; only the executor and the preview probes
// touch the filesystem. Moves are not transactional: a failure leaves earlier
// moves applied and execution continues with the next entry.
package organizer

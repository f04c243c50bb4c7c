// Package librarian runs one organize pass end to end: it takes the run lock,
// scans the source and target directories, asks the workflow for rename
// proposals, matches and plans them, shows the plan, waits for confirmation
// and executes the moves.
//
// Rendering and prompting belong to the caller through the Presenter
// interface; the workflow is reached through Proposer so tests can run the
// whole pipeline without the network.
package librarian

// Package main hosts the animelibrarian CLI entrypoint and command graph.
//
// The root command runs one organize pass: it resolves configuration, asks
// the Dify workflow where each downloaded file belongs, prints the plan and
// moves the files after confirmation. Subcommands cover configuration
// scaffolding, preflight checks and version reporting.
//
// Keep this package lean: the pipeline lives in internal/librarian and its
// collaborators; this package only wires flags, rendering and prompting.
package main

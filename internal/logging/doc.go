// Package logging assembles structured slog loggers used across the
// librarian.
//
// Console output goes to stderr in a compact human format (or JSON), while a
// JSON copy of every run is appended to the log file under the configured log
// directory. Context helpers tag lines with the run ID and stage so a single
// run can be followed through the file. A no-op logger is provided for tests
// and wiring code that cannot fail.
package logging

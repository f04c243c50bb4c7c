// Package preflight provides readiness checks for the filesystem paths and
// the workflow API a run depends on.
//
// These checks run in two contexts:
//   - The librarian runs the offline checks before scanning so a missing
//     directory or API key fails fast with a clear message.
//   - The CLI "check" command runs every check, including a probe of the
//     workflow API, and prints the results.
package preflight

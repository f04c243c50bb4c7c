// Package media defines the scanned inputs of a run: source files classified
// as video, subtitle or unsupported by extension, and the category
// directories found under the target root.
package media

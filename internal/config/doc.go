// Package config loads, normalizes, and validates animelibrarian configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the ANIMELIBRARIAN_* environment
// variables as fallbacks. Source and target directories are optional at load
// time because the CLI may provide them as flags; ValidateRunPaths checks them
// once the final values are known.
package config

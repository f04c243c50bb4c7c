package main

import (
	"fmt"
	"strings"
)

type outputFormat string

const (
	formatTable  outputFormat = "table"
	formatPlain  outputFormat = "plain"
	formatJSON   outputFormat = "json"
	formatNDJSON outputFormat = "ndjson"
)

func parseOutputFormat(value string) (outputFormat, error) {
	switch format := outputFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case "":
		return formatTable, nil
	case formatTable, formatPlain, formatJSON, formatNDJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported --format %q (want table, plain, json or ndjson)", value)
	}
}

// machineReadable reports whether stdout carries JSON and prompts must go to stderr.
func (f outputFormat) machineReadable() bool {
	return f == formatJSON || f == formatNDJSON
}

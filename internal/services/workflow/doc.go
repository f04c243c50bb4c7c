// Package workflow runs the remote AI renaming workflow through the Dify
// "workflow run" API in blocking mode.
//
// The request carries the scanned file names and category directory names as
// newline-joined inputs. The workflow's text output is expected to hold JSON
// of the form {"result":[{"original_name":...,"new_name":...}]}; DecodeJSON
// tolerates code fences and surrounding prose. Nothing returned here is
// trusted: callers must run proposals through organizer.Matcher.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, empty outputs and network
// timeouts with exponential backoff (base 1s, max 10s, 3 attempts by default),
// honouring Retry-After. Context cancellation aborts retries immediately.
package workflow

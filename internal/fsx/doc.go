// Package fsx wraps the filesystem operations a move needs: a rename that
// never overwrites its destination and tags cross-device failures, plus small
// existence probes used when previewing a plan.
package fsx

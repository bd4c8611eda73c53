// Package ops is the operation layer between the persistence core and its
// callers (CLI, MCP, web). Operations validate and normalize input, call
// the repository, and convert absent records into structured NOT_FOUND
// errors for surfaces that need a status code.
package ops

import "strings"

// cleanOptionalString trims an optional string and drops it when blank.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

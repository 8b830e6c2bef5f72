package persistence

import "strings"

// likeEscape is appended to every LIKE built from user input. Postgres
// already treats backslash as the escape character; sqlite needs it spelled out.
const likeEscape = ` ESCAPE '\'`

// escapeLikePattern escapes special characters in LIKE patterns
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// containsPattern builds a lower-cased substring pattern for a search term
func containsPattern(search string) string {
	return "%" + escapeLikePattern(strings.ToLower(strings.TrimSpace(search))) + "%"
}

package models

import "strings"

// likeEscaper neutralizes the LIKE metacharacters so search input matches
// literally instead of acting as a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds the contains pattern for an ILIKE search.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

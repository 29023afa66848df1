package repository

import "strings"

// likeEscape is the escape character declared by every LIKE built from user input.
const likeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search fragment into a case-folded LIKE pattern
// that matches it literally anywhere in the value.
func containsPattern(fragment string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(fragment)) + "%"
}

// likeClause is "LOWER(column) LIKE ? ESCAPE '\'".
func likeClause(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
}

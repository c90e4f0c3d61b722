// internal/app/system/search/search.go

// Package search builds the case-insensitive substring filters used by
// the event and post list endpoints. Queries are treated as literal
// text, never as user-supplied regex.
package search

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Regex returns a case-insensitive Mongo regex that matches s as a
// literal substring.
func Regex(s string) primitive.Regex {
	return primitive.Regex{Pattern: Escape(s), Options: "i"}
}

// AnyField returns a $or clause matching s as a literal substring in
// any of the given fields.
func AnyField(s string, fields ...string) bson.A {
	re := Regex(s)
	clauses := make(bson.A, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, bson.M{f: re})
	}
	return clauses
}

// Escape quotes regex metacharacters so user input matches literally.
func Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

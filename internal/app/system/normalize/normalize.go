// Package normalize canonicalizes user-supplied identity fields before
// they reach the stores, so uniqueness checks and role comparisons never
// depend on input casing or stray whitespace.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving its case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StudentID uppercases and trims a student ID so the unique index treats
// "2021comps042" and "2021COMPS042" as the same student.
func StudentID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Branch uppercases and trims a branch code (COMPS, IT, ...).
func Branch(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// CourseType lowercases and trims a course type (btech, mba, ...).
func CourseType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

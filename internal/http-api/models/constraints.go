package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"yamdb/internal/apperr"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// constraint checks return nil or one field error; collect folds them into a
// single validation error so a hook reports every broken field at once.

func required(field, value string) *apperr.FieldError {
	if strings.TrimSpace(value) == "" {
		return &apperr.FieldError{Field: field, Message: "This field is required"}
	}
	return nil
}

func maxLen(field, value string, max int) *apperr.FieldError {
	if utf8.RuneCountInString(value) > max {
		return &apperr.FieldError{Field: field, Message: fmt.Sprintf("Ensure this field has no more than %d characters", max)}
	}
	return nil
}

func oneOf(field string, ok bool, msg string) *apperr.FieldError {
	if !ok {
		return &apperr.FieldError{Field: field, Message: msg}
	}
	return nil
}

func slugField(field, value string) *apperr.FieldError {
	if !slugPattern.MatchString(value) {
		return &apperr.FieldError{Field: field, Message: "Enter a valid slug consisting of letters, numbers, underscores or hyphens"}
	}
	return nil
}

func collect(checks ...*apperr.FieldError) error {
	var details []apperr.FieldError
	for _, c := range checks {
		if c != nil {
			details = append(details, *c)
		}
	}
	if len(details) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", details...)
}

// IsSlug reports whether s is a valid category/genre slug.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

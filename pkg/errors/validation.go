package errors

import (
	"strings"
	"unicode"
)

// MaxResults is the largest page size the video API accepts.
const MaxResults = 50

// ValidateAPIKey rejects empty keys and keys containing whitespace or
// control characters. It does not check the key against the API.
func ValidateAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return New(ErrCodeUnauthorized, "no API key provided")
	}
	for _, r := range key {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "API key contains invalid characters")
		}
	}
	return nil
}

// ValidateRegion validates an ISO 3166-1 alpha-2 region code ("US", "gb").
func ValidateRegion(code string) error {
	if len(code) != 2 {
		return New(ErrCodeInvalidRegion, "region code must be two letters: %q", code)
	}
	for _, r := range code {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return New(ErrCodeInvalidRegion, "region code must be two letters: %q", code)
		}
	}
	return nil
}

// ValidateQuery validates a free-text search query.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only queries
//   - No control characters
//   - Maximum length of 500 characters
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return New(ErrCodeInvalidQuery, "search query cannot be empty")
	}
	if len(q) > 500 {
		return New(ErrCodeInvalidQuery, "search query too long (max 500 characters)")
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "search query contains invalid control characters")
		}
	}
	return nil
}

// ValidateCategoryID validates an optional numeric category id.
// The empty string means "no category filter" and is valid.
func ValidateCategoryID(id string) error {
	for _, r := range id {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidInput, "category id must be numeric: %q", id)
		}
	}
	return nil
}

// ClampLimit forces limit into [1, MaxResults].
func ClampLimit(limit int) int {
	return min(max(limit, 1), MaxResults)
}

package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// operationNameRegex matches operation names that are safe to embed in a
// URL path segment (Goodreads uses paths like "/book/isbn/index.xml").
var operationNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_./-]*$`)

// ValidateOperation validates an API operation name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //)
//   - Maximum length of 128 characters
func ValidateOperation(name string) error {
	if name == "" {
		return New(ErrCodeInvalidOperation, "operation name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidOperation, "operation name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidOperation, "operation name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidOperation, "operation name contains invalid characters: %q", pattern)
		}
	}

	if !operationNameRegex.MatchString(name) {
		return New(ErrCodeInvalidOperation, "invalid operation name: %q", name)
	}

	return nil
}

// ValidateParamKey validates a single query parameter key. Keys are written
// verbatim into the canonical query, so they must not carry separators.
func ValidateParamKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidParameter, "parameter name cannot be empty")
	}
	if strings.ContainsAny(key, "&=?# ") {
		return New(ErrCodeInvalidParameter, "parameter name contains reserved characters: %q", key)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidParameter, "parameter name contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "malformed URL")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL must include a host")
	}

	return nil
}

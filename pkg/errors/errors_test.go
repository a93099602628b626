package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeInvalidParameter, "the %q parameter is not supported", "Style")
	if got, want := err.Error(), `INVALID_PARAMETER: the "Style" parameter is not supported`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("connection refused")
	wrapped := Wrap(ErrCodeCache, cause, "read %s", "resp:amazon:abc")
	if got, want := wrapped.Error(), "CACHE_ERROR: read resp:amazon:abc: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should match its cause")
	}
}

func TestCodeLookup(t *testing.T) {
	nested := fmt.Errorf("invoke: %w", Wrap(ErrCodeParse, New(ErrCodeDecode, "bad gzip"), "parse body"))

	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"coded", New(ErrCodeInvalidURL, "URL cannot be empty"), ErrCodeInvalidURL, "URL cannot be empty"},
		{"outermost code wins", nested, ErrCodeParse, "parse body"},
		{"plain", errors.New("boom"), "", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}

	if Is(nil, ErrCodeInternal) || GetCode(nil) != "" {
		t.Error("nil error should carry no code")
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"parameter", New(ErrCodeInvalidParameter, "x"), true},
		{"operation", New(ErrCodeInvalidOperation, "x"), true},
		{"url", New(ErrCodeInvalidURL, "x"), true},
		{"wrapped", Wrap(ErrCodeInvalidInput, errors.New("inner"), "outer"), true},
		{"region", New(ErrCodeInvalidRegion, "x"), false},
		{"network", New(ErrCodeNetwork, "x"), false},
		{"plain", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.want {
				t.Errorf("IsValidation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsProviderConfig(t *testing.T) {
	if !IsProviderConfig(New(ErrCodeInvalidRegion, "unknown region %q", "XX")) {
		t.Error("INVALID_REGION should be a provider config error")
	}
	if !IsProviderConfig(New(ErrCodeMissingCredentials, "no key")) {
		t.Error("MISSING_CREDENTIALS should be a provider config error")
	}
	if IsProviderConfig(New(ErrCodeInvalidParameter, "x")) {
		t.Error("INVALID_PARAMETER is not a provider config error")
	}
}

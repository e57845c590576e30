// Package credentials holds the rules shared by the directory token backends.
package credentials

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// MaxTokenLength bounds a stored bearer token.
const MaxTokenLength = 4096

var (
	ErrNotFound     = errors.New("credential not found")
	ErrInvalidRef   = errors.New("invalid credential ref")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Refs look like directory.token_ref values: lower-case slash separated
// segments such as "directory/token" or "directory/staging-token".
var refPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*(?:/[a-z0-9][a-z0-9_.-]*)*$`)

// ParseRef trims surrounding slashes and whitespace and validates ref.
func ParseRef(ref string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(ref), "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidRef)
	}
	if !refPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w %q", ErrInvalidRef, ref)
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if strings.Trim(segment, ".") == "" {
			return "", fmt.Errorf("%w %q", ErrInvalidRef, ref)
		}
	}

	return trimmed, nil
}

// NormalizeToken returns the value sent after "Bearer " in the directory
// Authorization header. A pasted "Bearer " prefix is dropped.
func NormalizeToken(value string) (string, error) {
	token := strings.TrimSpace(value)
	if prefix, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(prefix, "bearer") {
		token = strings.TrimSpace(rest)
	} else if strings.EqualFold(token, "bearer") {
		token = ""
	}

	switch {
	case token == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidToken)
	case len(token) > MaxTokenLength:
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidToken, MaxTokenLength)
	case strings.ContainsFunc(token, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) || r > unicode.MaxASCII }):
		return "", fmt.Errorf("%w: must be printable ASCII without spaces", ErrInvalidToken)
	}

	return token, nil
}

package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	t.Parallel()

	valid := map[string]string{
		"directory/token":          "directory/token",
		" /directory/token/ ":      "directory/token",
		"directory/staging-token":  "directory/staging-token",
		"crm":                      "crm",
		"directory/v2.token_local": "directory/v2.token_local",
	}
	for in, want := range valid {
		got, err := ParseRef(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "   ", "../escape", "directory/../token", "Directory/Token", "directory//token", "directory/..", "directory token"} {
		_, err := ParseRef(in)
		require.ErrorIs(t, err, ErrInvalidRef, in)
	}
}

func TestNormalizeToken(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"s3cret":                "s3cret",
		"  s3cret\n":            "s3cret",
		"Bearer eyJhbGciOi.x.y": "eyJhbGciOi.x.y",
		"bearer   abc123":       "abc123",
	}
	for in, want := range cases {
		got, err := NormalizeToken(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "Bearer ", "two words", "tab\there", "café", strings.Repeat("a", MaxTokenLength+1)} {
		_, err := NormalizeToken(in)
		require.ErrorIs(t, err, ErrInvalidToken, in)
	}
}

// utils/valid_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidDocumentURL(t *testing.T) {
	valid := []string{
		"https://drive.google.com/file/d/abc123/view",
		"http://example.com/passport.pdf",
		"https://cdn.example.com/docs/visa.png?sig=xyz",
	}
	for _, u := range valid {
		assert.True(t, IsValidDocumentURL(u), u)
	}

	invalid := []string{
		"javascript:alert(1)",
		"data:text/html;base64,PHNjcmlwdD4=",
		"file:///etc/passwd",
		"/uploads/passport.pdf",
		"passport.pdf",
		"https://",
		"",
	}
	for _, u := range invalid {
		assert.False(t, IsValidDocumentURL(u), u)
	}
}

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Visa.Applicant+tag@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "visa.applicant+tag@example.com", email)

	for _, bad := range []string{"not-an-email", "a@b", "@example.com", ""} {
		_, err := SanitizeEmail(bad)
		assert.Error(t, err, bad)
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "John Doe", SanitizeInput("  John Doe  "))
	assert.Equal(t, "&lt;script&gt;x&lt;/script&gt;", SanitizeInput("<script>x</script>"))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}

// Package internal provides internal utility functionality for the obsidian-mcp server.
package internal

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"unicode"
)

// ValidateAccessToken checks if a user-provided access token is valid.
// It doesn't impose many conditions to allow flexibility.
// It is up to the user to follow best security practices when assigning access tokens.
func ValidateAccessToken(token string) error {
	if len(token) < 8 {
		return fmt.Errorf("access token should be at least 8 characters in length")
	}
	if hasWhitespace(token) {
		return fmt.Errorf("access token should not contain whitespace characters")
	}
	return nil
}

// hasWhitespace checks if the access token contains any whitespace characters.
func hasWhitespace(token string) bool {
	for _, r := range token {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

// ExtractBearerToken returns the token from an "Authorization: Bearer <token>" header value.
func ExtractBearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// TokensMatch compares two access tokens in constant time.
func TokensMatch(expected, actual string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}

package utils

import (
	"regexp"
	"strings"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)

	// seven or more digits in a row reads as a phone number
	phoneLikeRun = regexp.MustCompile(`[0-9]{7,}`)
)

// Handles that could pass for staff or a crisis service.
var reservedUsernames = []string{"admin", "moderator", "support", "serenify", "helpline", "therapist", "system"}

// ValidateUsername checks a signup handle. The handle is the account's only
// identity, so anything that looks like contact details is refused.
func ValidateUsername(username string) error {
	name := NormalizeUsername(username)

	switch {
	case len(name) < MinUsernameLength:
		return &ValidationError{Field: "username", Message: "Username must be at least 3 characters"}
	case len(name) > MaxUsernameLength:
		return &ValidationError{Field: "username", Message: "Username must be at most 20 characters"}
	case strings.Contains(name, "@"):
		return &ValidationError{Field: "username", Message: "Username must not be an email address"}
	case !usernamePattern.MatchString(name):
		if strings.HasPrefix(name, "_") {
			return &ValidationError{Field: "username", Message: "Username must start with a letter or number"}
		}
		return &ValidationError{Field: "username", Message: "Username can only contain letters, numbers, and underscores"}
	case phoneLikeRun.MatchString(name):
		return &ValidationError{Field: "username", Message: "Username must not contain a phone number"}
	}

	for _, reserved := range reservedUsernames {
		if strings.HasPrefix(strings.TrimLeft(name, "0123456789_"), reserved) {
			return &ValidationError{Field: "username", Message: "Username is reserved"}
		}
	}
	return nil
}

// NormalizeUsername is the stored and looked-up form: trimmed, lowercase.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

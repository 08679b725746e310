package usecase

import (
	"fmt"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Platform handles: 1-30 chars of lowercase letters, digits, dots and
// underscores. Rejected client-side so no request is ever dispatched
// for junk input.
var usernamePattern = regexp.MustCompile(`^[a-z0-9._]{1,30}$`)

func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{"username", "is required"}
	}
	if !usernamePattern.MatchString(strings.ToLower(username)) {
		return ValidationError{"username", "must be 1-30 letters, digits, dots or underscores"}
	}
	return nil
}

func ValidateUsernames(usernames []string) error {
	if len(usernames) == 0 {
		return ValidationError{"usernames", "at least one is required"}
	}
	for _, u := range usernames {
		if err := ValidateUsername(u); err != nil {
			return err
		}
	}
	return nil
}

package validator

import (
	"errors"
	"strings"
)

func ValidateEmail(email string) error {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return errors.New("invalid email format")
	}

	domain := parts[1]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return errors.New("invalid email domain")
	}

	return nil
}

package client

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the client accepts.
const MinPasswordLength = 6

var (
	ErrWeakPassword     = errors.New("password does not meet the policy")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// PasswordError lists every rule a candidate password broke.
type PasswordError struct {
	Problems []string
}

func (e *PasswordError) Error() string {
	return strings.Join(e.Problems, " ")
}

func (e *PasswordError) Is(target error) bool {
	return target == ErrWeakPassword
}

// ValidatePassword applies the registration policy: at least six characters
// with a letter, a digit and a non-alphanumeric character, and a matching
// confirmation. The server does not enforce any of it.
func ValidatePassword(password, confirm string) error {
	var problems []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		problems = append(problems, "Password must be at least 6 characters long.")
	}

	var letter, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	if !letter {
		problems = append(problems, "Password must contain at least one letter.")
	}
	if !digit {
		problems = append(problems, "Password must contain at least one digit.")
	}
	if !special {
		problems = append(problems, "Password must contain at least one special character (non-alphanumeric).")
	}
	if len(problems) > 0 {
		return &PasswordError{Problems: problems}
	}

	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

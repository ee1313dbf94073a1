package service

import "unicode"

const minPasswordLength = 8

// PasswordViolations checks the password strength policy and returns
// every violated rule. An empty slice means the password passes.
func PasswordViolations(password string) []string {
	var violations []string

	if len(password) < minPasswordLength {
		violations = append(violations, "must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		violations = append(violations, "must contain an upper-case letter")
	}
	if !hasLower {
		violations = append(violations, "must contain a lower-case letter")
	}
	if !hasDigit {
		violations = append(violations, "must contain a digit")
	}
	if !hasSpecial {
		violations = append(violations, "must contain a special character")
	}

	return violations
}

// Package validate holds input validation for user-submitted form fields.
// Every function returns a human-readable reason on failure so handlers can
// surface a specific message without mutating any state first.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRe  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	rollNoRe = regexp.MustCompile(`^[a-zA-Z0-9/-]+$`)
)

// Email checks basic email address shape.
func Email(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// RollNo checks a student roll number: alphanumeric plus hyphens and slashes.
func RollNo(rollNo string) error {
	if rollNo == "" {
		return fmt.Errorf("roll number cannot be empty")
	}
	if len(rollNo) < 3 {
		return fmt.Errorf("roll number too short")
	}
	if !rollNoRe.MatchString(rollNo) {
		return fmt.Errorf("roll number should contain only letters, numbers, hyphens, or slashes")
	}
	return nil
}

// Name checks a person's name for reasonable length.
func Name(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(trimmed) < 2 {
		return fmt.Errorf("name too short")
	}
	if len(name) > 100 {
		return fmt.Errorf("name too long")
	}
	return nil
}

// Description checks free-text description length bounds.
func Description(description string, minLen, maxLen int) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if len(trimmed) < minLen {
		return fmt.Errorf("description too short (minimum %d characters)", minLen)
	}
	if len(trimmed) > maxLen {
		return fmt.Errorf("description too long (maximum %d characters)", maxLen)
	}
	return nil
}

// FileName checks an uploaded file name for invalid characters and an extension.
func FileName(fileName string) error {
	if fileName == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if i := strings.IndexAny(fileName, `<>:"|?*`); i >= 0 {
		return fmt.Errorf("file name contains invalid character: %c", fileName[i])
	}
	if !strings.Contains(fileName, ".") {
		return fmt.Errorf("file name should have an extension")
	}
	return nil
}

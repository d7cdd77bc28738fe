package submission

import (
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
)

// ValidationError reports a field rejected before any I/O.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Validate applies the basic syntactic checks a submission must pass.
func Validate(d model.Draft) error {
	required := []struct {
		field string
		value string
	}{
		{"fullName", d.FullName},
		{"email", d.Email},
		{"college", d.College},
		{"phone", d.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}
	if !isValidEmail(strings.TrimSpace(d.Email)) {
		return &ValidationError{Field: "email", Reason: "is not a valid email address"}
	}
	return nil
}

// isValidEmail does a basic structural check.
func isValidEmail(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	domain := parts[1]
	return len(parts[0]) > 0 &&
		strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}

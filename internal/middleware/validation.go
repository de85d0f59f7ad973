package middleware

import (
	"errors"
	"strings"
	"time"
)

// ValidateDateParam validates an optional ISO-8601 calendar-day parameter.
func ValidateDateParam(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return errors.New("date must be formatted YYYY-MM-DD")
	}
	return nil
}

// ValidateUploadName rejects upload file names that do not look like zip
// archives.
func ValidateUploadName(name string) error {
	if name == "" {
		return errors.New("upload file name cannot be empty")
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		return errors.New("uploads must be zip archives")
	}
	return nil
}

// ValidateUploadCount bounds how many archives one request may carry.
func ValidateUploadCount(count, max int) error {
	if count == 0 {
		return errors.New("at least one archive is required")
	}
	if max > 0 && count > max {
		return errors.New("too many archives in one request")
	}
	return nil
}

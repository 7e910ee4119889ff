package service

import "github.com/microcosm-cc/bluemonday"

// User supplied text is stored as plain text, any markup is stripped.
var sanitizePolicy = bluemonday.StrictPolicy()

func sanitize(s string) string {
	return sanitizePolicy.Sanitize(s)
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := sanitize(*s)
	return &clean
}

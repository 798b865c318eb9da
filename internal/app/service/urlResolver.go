// Package service implements create-or-fetch and resolution of short URLs
// on top of a transactional mapping store.
package service

import (
	"net/url"
	"strings"

	"github.com/atinyakov/url-resolver/internal/models"
)

const (
	// maxURLLength matches the common browser limit for URLs.
	maxURLLength = 2083

	maxTokenLength = 32
)

// ValidateLongURL accepts absolute http and https URLs with a host.
func ValidateLongURL(raw string) error {
	if raw == "" {
		return &models.ValidationError{Field: "long_url", Reason: "must not be empty"}
	}

	if len(raw) > maxURLLength {
		return &models.ValidationError{Field: "long_url", Reason: "is too long"}
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return &models.ValidationError{Field: "long_url", Reason: "is not a valid URL"}
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return &models.ValidationError{Field: "long_url", Reason: "scheme must be http or https"}
	}

	if u.Host == "" {
		return &models.ValidationError{Field: "long_url", Reason: "host is required"}
	}

	return nil
}

// ValidateToken accepts tokens of URL-safe characters only.
func ValidateToken(token string) error {
	if token == "" {
		return &models.ValidationError{Field: "short_url", Reason: "must not be empty"}
	}

	if len(token) > maxTokenLength {
		return &models.ValidationError{Field: "short_url", Reason: "is too long"}
	}

	for _, c := range token {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return &models.ValidationError{Field: "short_url", Reason: "may contain only letters, digits, '-' and '_'"}
		}
	}

	return nil
}

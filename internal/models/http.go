// Package models defines the persisted records, the request structures used
// by the transports and the error kinds shared between layers.
package models

// ShortenRequest is the body of POST /.
type ShortenRequest struct {
	// LongURL is the absolute URL to be shortened.
	LongURL string `json:"long_url"`

	// ShortURL is an optional client hint. Its format is checked, but new
	// mappings always get a generated token.
	ShortURL string `json:"short_url,omitempty"`
}

package models

// LongURLRecord is a row of the long_url table.
type LongURLRecord struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// ShortURLRecord is a row of the short_url table. Token is stored in the
// url column.
type ShortURLRecord struct {
	ID        int64  `json:"id"`
	Token     string `json:"url"`
	LongURLID int64  `json:"long_url_id"`
}

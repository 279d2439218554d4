package cache

import "time"

// Entry is one cached API page.
type Entry struct {
	// Body is the raw JSON response body.
	Body []byte `json:"body"`

	// FetchedAt is when the page was retrieved from the API.
	FetchedAt time.Time `json:"fetched_at"`
}

// Age returns how long ago the entry was fetched.
func (e *Entry) Age() time.Duration {
	return time.Since(e.FetchedAt)
}

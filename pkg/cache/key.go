package cache

import "fmt"

// Key identifies one cached page of the get-matches-since endpoint.
type Key struct {
	// Epoch is the lower-bound epoch the page was requested with.
	Epoch uint64
}

// String generates the deterministic Redis key string.
// Format: omeda:matches-since:<epoch>
func (k Key) String() string {
	return fmt.Sprintf("omeda:matches-since:%d", k.Epoch)
}

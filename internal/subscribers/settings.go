// Package subscribers keeps a mailing list's active subscriber count in the
// options table, refreshing it from the Campaign Monitor API at most once per TTL.
package subscribers

import "time"

const (
	DefaultBaseURL        = "https://api.createsend.com"
	DefaultCountOption    = "cmcount_total"
	DefaultLastPollOption = "cmcount_lastpoll_timestamp"
	DefaultTTLSeconds     = 30

	// The API authenticates with the key as username; the password is ignored.
	basicAuthPassword = "x"
)

// Settings is everything the gate and the refresher need to know.
type Settings struct {
	APIKey  string
	ListID  string
	BaseURL string

	// TTLSeconds is how long a polled count stays fresh. Zero refreshes on
	// every request that lands in a later second than the previous poll.
	TTLSeconds int64

	CountOption    string
	LastPollOption string

	// InsecureSkipVerify disables TLS peer verification for the upstream call.
	InsecureSkipVerify bool
	// Timeout bounds one upstream round-trip. Zero leaves it to the transport.
	Timeout time.Duration

	Debug bool
}

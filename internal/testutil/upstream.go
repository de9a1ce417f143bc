package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// StatsUpstream mimics the Campaign Monitor list stats endpoint.
type StatsUpstream struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	hits     int
	lastPath string
	lastUser string
	lastPass string
}

// NewStatsUpstream starts a plain HTTP upstream answering 200 with body.
func NewStatsUpstream(body string) *StatsUpstream {
	u := &StatsUpstream{status: http.StatusOK, body: body}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

// NewTLSStatsUpstream is NewStatsUpstream behind a self-signed certificate.
func NewTLSStatsUpstream(body string) *StatsUpstream {
	u := &StatsUpstream{status: http.StatusOK, body: body}
	u.Server = httptest.NewTLSServer(http.HandlerFunc(u.serve))
	return u
}

func (u *StatsUpstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.hits++
	u.lastPath = r.URL.Path
	u.lastUser, u.lastPass, _ = r.BasicAuth()
	status, body := u.status, u.body
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Respond changes what the upstream answers from now on.
func (u *StatsUpstream) Respond(status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.body = body
}

func (u *StatsUpstream) Hits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits
}

func (u *StatsUpstream) LastPath() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastPath
}

// LastAuth returns the Basic auth credentials of the latest request.
func (u *StatsUpstream) LastAuth() (string, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastUser, u.lastPass
}

// Package testutil provides testing utilities for the match backfill tool.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/omeda-tools/match-backfill/pkg/omeda"
)

// MockResponse defines the behavior of the mock API for one request epoch.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockOmeda is a configurable mock of the get-matches-since endpoint. The
// last path segment is the request epoch; responses are scripted per epoch.
// Unscripted epochs answer 200 with an empty array, which the engine reads
// as window exhaustion.
type MockOmeda struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[uint64]MockResponse

	// Tracking
	RequestCount  int
	EpochRequests map[uint64]int
}

// NewMockOmeda creates a new mock Omeda API server.
func NewMockOmeda() *MockOmeda {
	mock := &MockOmeda{
		responses:     make(map[uint64]MockResponse),
		EpochRequests: make(map[uint64]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		epoch, err := parseEpochPath(r.URL.Path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		mock.mu.Lock()
		mock.RequestCount++
		mock.EpochRequests[epoch]++
		resp, scripted := mock.responses[epoch]
		mock.mu.Unlock()

		if !scripted {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[]`))
			return
		}

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL, usable directly as the client base URL.
func (m *MockOmeda) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockOmeda) Close() {
	m.server.Close()
}

// Reset clears all tracking counters and scripted responses.
func (m *MockOmeda) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.EpochRequests = make(map[uint64]int)
	m.responses = make(map[uint64]MockResponse)
}

// SetResponse scripts the response for one request epoch.
func (m *MockOmeda) SetResponse(epoch uint64, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[epoch] = resp
}

// SetMatches scripts a 200 response whose body is a batch of minimal match
// records with the given end epochs.
func (m *MockOmeda) SetMatches(epoch uint64, endEpochs ...uint64) {
	m.SetResponse(epoch, MockResponse{
		StatusCode: http.StatusOK,
		Body:       MatchesBody(endEpochs...),
	})
}

// GetRequestCount returns the total number of requests served.
func (m *MockOmeda) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetEpochRequests returns how often the given epoch was requested.
func (m *MockOmeda) GetEpochRequests(epoch uint64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.EpochRequests[epoch]
}

func parseEpochPath(path string) (uint64, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	last := segments[len(segments)-1]
	epoch, err := strconv.ParseUint(last, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("path %q does not end in an epoch", path)
	}
	return epoch, nil
}

// EpochTime formats a Unix epoch in the API's fixed time layout.
func EpochTime(epoch uint64) string {
	return time.Unix(int64(epoch), 0).UTC().Format(omeda.TimeLayout)
}

// Matches builds minimal in-memory match records with the given end epochs,
// for exercising the engine without HTTP.
func Matches(endEpochs ...uint64) []omeda.Match {
	matches := make([]omeda.Match, 0, len(endEpochs))
	for i, e := range endEpochs {
		matches = append(matches, omeda.Match{
			MatchID:      fmt.Sprintf("match-%d", e),
			GameMode:     "pvp",
			Region:       "eu",
			StartTime:    EpochTime(startEpoch(e)),
			EndTime:      EpochTime(e),
			WinningTeam:  int64(i % 2),
			GameDuration: 1800,
		})
	}
	return matches
}

// MatchesBody builds the JSON array body for Matches(endEpochs...).
func MatchesBody(endEpochs ...uint64) string {
	parts := make([]string, 0, len(endEpochs))
	for _, e := range endEpochs {
		parts = append(parts, fmt.Sprintf(
			`{"matchId":"match-%d","gameMode":"pvp","region":"eu","startTime":%q,"endTime":%q,"winningTeam":0,"gameDuration":1800,"matchEndReason":"surrender","playerData":[],"heroKills":[],"structureDestructions":[],"objectiveKills":[]}`,
			e, EpochTime(startEpoch(e)), EpochTime(e)))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func startEpoch(endEpoch uint64) uint64 {
	if endEpoch < 1800 {
		return 0
	}
	return endEpoch - 1800
}

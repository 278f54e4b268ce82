// SPDX-License-Identifier: MIT

package tmdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockServer is a configurable TMDB stand-in for tests. It serves the
// trending and configuration endpoints, counts requests per endpoint and can
// inject failures.
type MockServer struct {
	*httptest.Server
	mu       sync.Mutex
	movies   []map[string]any
	shows    []map[string]any
	all      []map[string]any
	failWith map[string]int // endpoint prefix -> HTTP status to force
	requests map[string]int // endpoint prefix -> observed request count
}

// NewMockServer starts a mock TMDB server with realistic default data.
func NewMockServer() *MockServer {
	m := &MockServer{
		failWith: make(map[string]int),
		requests: make(map[string]int),
	}
	m.SetDefaultData()

	mux := http.NewServeMux()
	mux.HandleFunc("/trending/movie/", m.handleMovies)
	mux.HandleFunc("/trending/tv/", m.handleTV)
	mux.HandleFunc("/trending/all/", m.handleAll)
	mux.HandleFunc("/configuration", m.handleConfiguration)

	m.Server = httptest.NewServer(mux)
	return m
}

// SetDefaultData loads the built-in fixture payloads.
func (m *MockServer) SetDefaultData() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.movies = []map[string]any{
		{
			"id": 550, "title": "Fight Club", "media_type": "movie",
			"popularity": 61.416, "vote_average": 8.4, "vote_count": 26280,
			"release_date": "1999-10-15", "overview": "An insomniac office worker...",
			"genre_ids": []int{18}, "poster_path": "/fight-club.jpg",
		},
		{
			"id": 27205, "title": "Inception", "media_type": "movie",
			"popularity": 151.2, "vote_average": 8.3, "vote_count": 34000,
			"release_date": "2010-07-16", "overview": "A thief who steals corporate secrets...",
			"genre_ids": []int{28, 878},
		},
	}
	m.shows = []map[string]any{
		{
			"id": 1399, "name": "Game of Thrones", "media_type": "tv",
			"popularity": 369.594, "vote_average": 8.4, "vote_count": 21857,
			"first_air_date": "2011-04-17", "overview": "Seven noble families...",
			"genre_ids": []int{10765, 18}, "origin_country": []string{"US"},
		},
		{
			"id": 66732, "name": "Stranger Things", "media_type": "tv",
			"popularity": 98.7, "vote_average": 8.6, "vote_count": 15000,
			"first_air_date": "2016-07-15", "overview": "When a young boy vanishes...",
			"genre_ids": []int{18, 9648},
		},
	}
	m.all = append(append([]map[string]any{}, m.movies...), m.shows...)
}

// SetMovies replaces the trending-movies payload.
func (m *MockServer) SetMovies(movies []map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movies = movies
}

// SetShows replaces the trending-tv payload.
func (m *MockServer) SetShows(shows []map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shows = shows
}

// SetAll replaces the combined trending payload.
func (m *MockServer) SetAll(all []map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all = all
}

// FailWith forces every request whose path starts with prefix to return the
// given HTTP status. A status of 0 clears the failure.
func (m *MockServer) FailWith(prefix string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == 0 {
		delete(m.failWith, prefix)
		return
	}
	m.failWith[prefix] = status
}

// Requests reports how many requests hit paths starting with prefix.
func (m *MockServer) Requests(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for path, n := range m.requests {
		if strings.HasPrefix(path, prefix) {
			total += n
		}
	}
	return total
}

func (m *MockServer) intercept(w http.ResponseWriter, r *http.Request) bool {
	m.mu.Lock()
	m.requests[r.URL.Path]++
	var status int
	for prefix, s := range m.failWith {
		if strings.HasPrefix(r.URL.Path, prefix) {
			status = s
			break
		}
	}
	m.mu.Unlock()

	if status != 0 {
		http.Error(w, `{"status_message":"injected failure"}`, status)
		return true
	}
	return false
}

func (m *MockServer) servePage(w http.ResponseWriter, results []map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"page":          1,
		"results":       results,
		"total_pages":   1,
		"total_results": len(results),
	})
}

func (m *MockServer) handleMovies(w http.ResponseWriter, r *http.Request) {
	if m.intercept(w, r) {
		return
	}
	m.mu.Lock()
	results := m.movies
	m.mu.Unlock()
	m.servePage(w, results)
}

func (m *MockServer) handleTV(w http.ResponseWriter, r *http.Request) {
	if m.intercept(w, r) {
		return
	}
	m.mu.Lock()
	results := m.shows
	m.mu.Unlock()
	m.servePage(w, results)
}

func (m *MockServer) handleAll(w http.ResponseWriter, r *http.Request) {
	if m.intercept(w, r) {
		return
	}
	m.mu.Lock()
	results := m.all
	m.mu.Unlock()
	m.servePage(w, results)
}

func (m *MockServer) handleConfiguration(w http.ResponseWriter, r *http.Request) {
	if m.intercept(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"images":{"base_url":"http://image.tmdb.org/t/p/"}}`))
}

package couchpotato

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func testConfig(baseURL string) *Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.APIKey = "testkey123"
	cfg.Breaker.Enabled = false
	return cfg
}

func TestClient_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL == "" {
		t.Error("Default config should have BaseURL")
	}
	if cfg.Timeout == 0 {
		t.Error("Default config should have Timeout")
	}
	if !cfg.Breaker.Enabled {
		t.Error("Default config should enable the circuit breaker")
	}
}

func TestClient_ListMovies(t *testing.T) {
	// Arrange
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"movies":[{"title":"Inception","status":"done"},{"title":"Tenet","status":"active"}]}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), zap.NewNop())

	// Act
	movies, err := client.ListMovies(context.Background(), "")

	// Assert
	if err != nil {
		t.Fatalf("ListMovies failed: %v", err)
	}
	if gotPath != "/api/testkey123/movie.list" {
		t.Errorf("Expected path /api/testkey123/movie.list, got %s", gotPath)
	}
	if gotQuery != "" {
		t.Errorf("Expected no query parameters without search, got %q", gotQuery)
	}
	if len(movies) != 2 {
		t.Fatalf("Expected 2 movies, got %d", len(movies))
	}
	if movies[0].Title != "Inception" || string(movies[0].Status) != "done" {
		t.Errorf("Unexpected first movie: %+v", movies[0])
	}
}

func TestClient_ListMovies_SearchEncoded(t *testing.T) {
	var gotRaw string
	var gotSearch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRaw = r.URL.RawQuery
		gotSearch = r.URL.Query().Get("search")
		w.Write([]byte(`{"movies":[]}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), zap.NewNop())

	if _, err := client.ListMovies(context.Background(), "Star Wars: Episode 4"); err != nil {
		t.Fatalf("ListMovies failed: %v", err)
	}

	if strings.Contains(gotRaw, " ") {
		t.Errorf("Raw query must not contain spaces, got %q", gotRaw)
	}
	if gotSearch != "Star Wars: Episode 4" {
		t.Errorf("Search parameter did not round trip, got %q", gotSearch)
	}
}

func TestClient_ListMovies_AbsentMoviesField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), zap.NewNop())

	movies, err := client.ListMovies(context.Background(), "")
	if err != nil {
		t.Fatalf("An absent movies field is an empty library, got error: %v", err)
	}
	if len(movies) != 0 {
		t.Errorf("Expected empty library, got %d movies", len(movies))
	}
}

func TestClient_SearchProviders(t *testing.T) {
	var gotPath string
	var gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQ = r.URL.Query().Get("q")
		w.Write([]byte(`{"movies":[{"imdb":"tt2779318","titles":["The Day of the Doctor"],"year":2013},{"titles":["Day of the Doctors"]}]}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), zap.NewNop())

	candidates, err := client.SearchProviders(context.Background(), "Day of the Doctor")
	if err != nil {
		t.Fatalf("SearchProviders failed: %v", err)
	}
	if gotPath != "/api/testkey123/movie.search" {
		t.Errorf("Expected path /api/testkey123/movie.search, got %s", gotPath)
	}
	if gotQ != "Day of the Doctor" {
		t.Errorf("Query parameter did not round trip, got %q", gotQ)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ImdbID != "tt2779318" || candidates[0].Year != 2013 {
		t.Errorf("Unexpected first candidate: %+v", candidates[0])
	}
	if candidates[1].ImdbID != "" || candidates[1].Year != 0 {
		t.Errorf("Missing identifier and year should decode to zero values: %+v", candidates[1])
	}
}

func TestClient_AddMovie(t *testing.T) {
	var gotIdentifier string
	success := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentifier = r.URL.Query().Get("identifier")
		if success {
			w.Write([]byte(`{"success":true}`))
		} else {
			w.Write([]byte(`{"success":false}`))
		}
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), zap.NewNop())

	ok, err := client.AddMovie(context.Background(), "tt2779318")
	if err != nil {
		t.Fatalf("AddMovie failed: %v", err)
	}
	if !ok {
		t.Error("Expected add to succeed")
	}
	if gotIdentifier != "tt2779318" {
		t.Errorf("Expected identifier tt2779318, got %q", gotIdentifier)
	}

	// A declined add is a result, not an error
	success = false
	ok, err = client.AddMovie(context.Background(), "tt2779318")
	if err != nil {
		t.Fatalf("Declined add must not be an error: %v", err)
	}
	if ok {
		t.Error("Expected add to be declined")
	}
}

func TestClient_ServerErrorIsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), zap.NewNop())

	_, err := client.ListMovies(context.Background(), "")
	if err == nil {
		t.Fatal("Expected an error on HTTP 500")
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Expected *ServiceError, got %T", err)
	}
	if svcErr.Op != "movie.list" {
		t.Errorf("Expected op movie.list, got %s", svcErr.Op)
	}
}

func TestClient_ErrorsNeverLeakAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	client := New(testConfig(srv.URL), zap.NewNop())

	_, err := client.ListMovies(context.Background(), "")
	if err == nil {
		t.Fatal("Expected an error on HTTP 502")
	}
	if strings.Contains(err.Error(), "testkey123") {
		t.Errorf("Error message leaks the API key: %v", err)
	}

	// Transport failures carry a url.Error whose message spells out the
	// request URL; the client must strip it.
	srv.Close()
	_, err = client.SearchProviders(context.Background(), "anything")
	if err == nil {
		t.Fatal("Expected an error after server shutdown")
	}
	if strings.Contains(err.Error(), "testkey123") {
		t.Errorf("Transport error message leaks the API key: %v", err)
	}
}

func TestClient_MalformedBodyIsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"movies": not json`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), zap.NewNop())

	_, err := client.SearchProviders(context.Background(), "anything")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Expected *ServiceError on malformed body, got %v", err)
	}
}

func TestClient_BreakerFailsFastWhenOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Breaker.Enabled = true
	client := New(cfg, zap.NewNop())

	// Three straight failures trip the breaker
	for i := 0; i < 3; i++ {
		if _, err := client.ListMovies(context.Background(), ""); err == nil {
			t.Fatal("Expected an error while tripping the breaker")
		}
	}

	_, err := client.ListMovies(context.Background(), "")
	if err == nil {
		t.Fatal("Expected a fail-fast error with the breaker open")
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Breaker-open should surface as *ServiceError, got %T", err)
	}
}

func TestClient_Available(t *testing.T) {
	up := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/testkey123/app.available" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if up {
			w.Write([]byte(`{"success":true}`))
		} else {
			w.Write([]byte(`{"success":false}`))
		}
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), zap.NewNop())

	if err := client.Available(context.Background()); err != nil {
		t.Fatalf("Available failed: %v", err)
	}

	up = false
	if err := client.Available(context.Background()); err == nil {
		t.Error("Expected an error when the manager reports unavailable")
	}
}

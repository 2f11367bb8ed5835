package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New("test-key", server.URL, "en-US", WithRateLimit(1000))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func TestSearch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("path = %q, want /search/movie", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" {
			t.Errorf("api_key = %q, want test-key", q.Get("api_key"))
		}
		if q.Get("query") != "The Matrix" {
			t.Errorf("query = %q, want The Matrix", q.Get("query"))
		}
		if q.Get("primary_release_year") != "1999" {
			t.Errorf("primary_release_year = %q, want 1999", q.Get("primary_release_year"))
		}
		if q.Get("language") != "en-US" {
			t.Errorf("language = %q, want en-US", q.Get("language"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 603, "title": "The Matrix", "original_title": "The Matrix",
				 "release_date": "1999-03-31", "popularity": 84.5},
				{"id": 604, "title": "The Matrix Reloaded", "release_date": "2003-05-15"}
			]
		}`))
	})

	records, err := client.Search(context.Background(), "The Matrix", 1999)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != 603 || records[0].Title != "The Matrix" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[0].Popularity == nil || *records[0].Popularity != 84.5 {
		t.Errorf("popularity not decoded: %+v", records[0].Popularity)
	}
	if records[1].Popularity != nil {
		t.Errorf("absent popularity should stay nil: %+v", records[1].Popularity)
	}
}

func TestSearchOmitsZeroYear(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("primary_release_year") {
			t.Error("year 0 should not be sent")
		}
		w.Write([]byte(`{"page": 1, "results": []}`))
	})

	records, err := client.Search(context.Background(), "Untitled", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestSearchEmptyTitle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty title should not reach the server")
	})

	records, err := client.Search(context.Background(), "   ", 2020)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if records != nil {
		t.Errorf("got %v, want nil", records)
	}
}

func TestSearchServiceError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := client.Search(context.Background(), "Anything", 0)
	if err == nil {
		t.Fatal("expected an error")
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if svcErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", svcErr.Status)
	}
}

func TestFetch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("path = %q, want /movie/603", r.URL.Path)
		}
		w.Write([]byte(`{"id": 603, "title": "The Matrix", "release_date": "1999-03-31"}`))
	})

	record, err := client.Fetch(context.Background(), 603)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if record.ID != 603 || record.Title != "The Matrix" {
		t.Errorf("unexpected record: %+v", record)
	}
}

func TestFetchInvalidID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid id should not reach the server")
	})

	if _, err := client.Fetch(context.Background(), 0); err == nil {
		t.Fatal("expected an error for id 0")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New("", "", ""); err == nil {
		t.Fatal("expected an error for missing api key")
	}
}

func TestNoop(t *testing.T) {
	var lookup Lookup = Noop{}

	records, err := lookup.Search(context.Background(), "Anything", 2020)
	if err != nil || records != nil {
		t.Errorf("Noop.Search = (%v, %v), want (nil, nil)", records, err)
	}

	record, err := lookup.Fetch(context.Background(), 1)
	if err != nil || record != nil {
		t.Errorf("Noop.Fetch = (%v, %v), want (nil, nil)", record, err)
	}
}

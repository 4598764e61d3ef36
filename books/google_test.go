package books

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			t.Errorf("path = %q, want /volumes", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "dune" {
			t.Errorf("q = %q, want dune", got)
		}
		if got := r.URL.Query().Get("maxResults"); got != "5" {
			t.Errorf("maxResults = %q, want 5", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{
					"id": "abc123",
					"volumeInfo": {
						"title": "Dune",
						"authors": ["Frank Herbert"],
						"pageCount": 412,
						"categories": ["Fiction"],
						"publishedDate": "1965",
						"imageLinks": {"thumbnail": "http://example.com/dune.jpg"}
					}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewGoogleClient(server.URL, "test-key")

	results, err := client.Search("dune", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	book := results[0]
	if book.VolumeID != "abc123" {
		t.Errorf("volume id = %q, want abc123", book.VolumeID)
	}
	if book.Title != "Dune" {
		t.Errorf("title = %q, want Dune", book.Title)
	}
	if len(book.Authors) != 1 || book.Authors[0] != "Frank Herbert" {
		t.Errorf("authors = %v", book.Authors)
	}
	if book.ThumbnailURL != "http://example.com/dune.jpg" {
		t.Errorf("thumbnail = %q", book.ThumbnailURL)
	}
	if book.Source != "google" {
		t.Errorf("source = %q, want google", book.Source)
	}
}

func TestGoogleClientBySubjectPrefixesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "subject:fiction" {
			t.Errorf("q = %q, want subject:fiction", got)
		}
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewGoogleClient(server.URL, "")

	results, err := client.BySubject("fiction", 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestGoogleClientPropagatesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewGoogleClient(server.URL, "")

	if _, err := client.Search("dune", 5); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

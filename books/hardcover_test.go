package books

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHardcoverClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}

		var payload struct {
			Query     string `json:"query"`
			Variables struct {
				Query   string `json:"query"`
				PerPage int    `json:"perPage"`
			} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Variables.Query != "dune" || payload.Variables.PerPage != 5 {
			t.Errorf("variables = %+v", payload.Variables)
		}

		w.Write([]byte(`{
			"data": {
				"search": {
					"results": {
						"hits": [
							{
								"document": {
									"id": 42,
									"title": "Dune",
									"author_names": ["Frank Herbert"],
									"pages": 412,
									"release_year": 1965,
									"image": {"url": "http://example.com/dune.jpg"}
								}
							}
						]
					}
				}
			}
		}`))
	}))
	defer server.Close()

	client := NewHardcoverClient(server.URL, "test-token")

	results, err := client.Search("dune", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	book := results[0]
	if book.VolumeID != "hc-42" {
		t.Errorf("volume id = %q, want hc-42", book.VolumeID)
	}
	if book.PublishedDate != "1965" {
		t.Errorf("published date = %q, want 1965", book.PublishedDate)
	}
	if book.Source != "hardcover" {
		t.Errorf("source = %q, want hardcover", book.Source)
	}
}

package books

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/next-chapter/api/models"
)

const DefaultHardcoverBaseURL = "https://api.hardcover.app/v1/graphql"

// HardcoverClient proxies search queries to the Hardcover GraphQL API.
// Used as a fallback provider when no Google API quota is configured.
type HardcoverClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewHardcoverClient(baseURL, token string) *HardcoverClient {
	if baseURL == "" {
		baseURL = DefaultHardcoverBaseURL
	}
	return &HardcoverClient{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

const hardcoverSearchQuery = `
	query Search($query: String!, $perPage: Int!) {
		search(query: $query, query_type: "books", per_page: $perPage) {
			results
		}
	}`

type hardcoverSearchResponse struct {
	Data struct {
		Search struct {
			Results struct {
				Hits []struct {
					Document struct {
						ID          json.Number `json:"id"`
						Title       string      `json:"title"`
						AuthorNames []string    `json:"author_names"`
						Description string      `json:"description"`
						Pages       int         `json:"pages"`
						Genres      []string    `json:"genres"`
						Image       struct {
							URL string `json:"url"`
						} `json:"image"`
						ReleaseYear int `json:"release_year"`
					} `json:"document"`
				} `json:"hits"`
			} `json:"results"`
		} `json:"search"`
	} `json:"data"`
}

func (hc *HardcoverClient) Search(query string, limit int) ([]models.Book, error) {
	if limit <= 0 || limit > 25 {
		limit = 20
	}

	payload, err := json.Marshal(map[string]interface{}{
		"query": hardcoverSearchQuery,
		"variables": map[string]interface{}{
			"query":   query,
			"perPage": limit,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, hc.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+hc.Token)

	resp, err := hc.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hardcover API returned status: %d", resp.StatusCode)
	}

	var searchResponse hardcoverSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResponse); err != nil {
		return nil, err
	}

	var results []models.Book
	for _, hit := range searchResponse.Data.Search.Results.Hits {
		doc := hit.Document
		book := models.Book{
			VolumeID:     "hc-" + doc.ID.String(),
			Title:        doc.Title,
			Authors:      doc.AuthorNames,
			Description:  doc.Description,
			PageCount:    doc.Pages,
			Categories:   doc.Genres,
			ThumbnailURL: doc.Image.URL,
			Source:       "hardcover",
		}
		if doc.ReleaseYear > 0 {
			book.PublishedDate = strconv.Itoa(doc.ReleaseYear)
		}
		results = append(results, book)
	}

	return results, nil
}

// BySubject reuses plain search; Hardcover has no subject facet on this endpoint
func (hc *HardcoverClient) BySubject(subject string, limit int) ([]models.Book, error) {
	return hc.Search(subject, limit)
}

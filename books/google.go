package books

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/next-chapter/api/models"
)

const DefaultGoogleBaseURL = "https://www.googleapis.com/books/v1"

// GoogleClient queries the Google Books volumes API
type GoogleClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewGoogleClient(baseURL, apiKey string) *GoogleClient {
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}
	return &GoogleClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type googleVolumesResponse struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title         string   `json:"title"`
			Authors       []string `json:"authors"`
			Description   string   `json:"description"`
			PageCount     int      `json:"pageCount"`
			Categories    []string `json:"categories"`
			PublishedDate string   `json:"publishedDate"`
			ImageLinks    struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

func (gc *GoogleClient) Search(query string, limit int) ([]models.Book, error) {
	return gc.volumes(query, limit)
}

func (gc *GoogleClient) BySubject(subject string, limit int) ([]models.Book, error) {
	return gc.volumes("subject:"+subject, limit)
}

func (gc *GoogleClient) volumes(q string, limit int) ([]models.Book, error) {
	if limit <= 0 || limit > 40 {
		limit = 20
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	if gc.APIKey != "" {
		params.Set("key", gc.APIKey)
	}

	resp, err := gc.HTTPClient.Get(gc.BaseURL + "/volumes?" + params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books API returned status: %d", resp.StatusCode)
	}

	var volumesResponse googleVolumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&volumesResponse); err != nil {
		return nil, err
	}

	var results []models.Book
	for _, item := range volumesResponse.Items {
		results = append(results, models.Book{
			VolumeID:      item.ID,
			Title:         item.VolumeInfo.Title,
			Authors:       item.VolumeInfo.Authors,
			Description:   item.VolumeInfo.Description,
			PageCount:     item.VolumeInfo.PageCount,
			Categories:    item.VolumeInfo.Categories,
			ThumbnailURL:  item.VolumeInfo.ImageLinks.Thumbnail,
			PublishedDate: item.VolumeInfo.PublishedDate,
			Source:        "google",
		})
	}

	return results, nil
}

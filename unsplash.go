package pptgen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	unsplashBaseURL = "https://api.unsplash.com"
	// maxImageDownload caps a single photo download.
	maxImageDownload = 8 << 20 // 8 MB
)

// UnsplashClient fetches stock photos through the Unsplash search API.
// Resolution is two-step: search for the best landscape match, then
// download its "regular" rendition.
type UnsplashClient struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

// NewUnsplashClient builds a client. An empty access key is allowed; the
// client then fails every fetch, which the resolver turns into fallback
// images.
func NewUnsplashClient(accessKey string) *UnsplashClient {
	return &UnsplashClient{
		accessKey: accessKey,
		baseURL:   unsplashBaseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Fetch implements ImageProvider.
func (u *UnsplashClient) Fetch(ctx context.Context, query string) ([]byte, error) {
	if u.accessKey == "" {
		return nil, fmt.Errorf("unsplash: no access key configured")
	}

	searchURL := fmt.Sprintf("%s/search/photos?query=%s&per_page=1&orientation=landscape",
		u.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("unsplash: build search request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash: search %q: %w", query, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash: search %q: status %d", query, resp.StatusCode)
	}

	var search unsplashSearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&search); err != nil {
		return nil, fmt.Errorf("unsplash: decode search response: %w", err)
	}
	if len(search.Results) == 0 || search.Results[0].URLs.Regular == "" {
		return nil, fmt.Errorf("unsplash: no results for %q", query)
	}

	return u.download(ctx, search.Results[0].URLs.Regular)
}

func (u *UnsplashClient) download(ctx context.Context, photoURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("unsplash: build download request: %w", err)
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash: download photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash: download photo: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageDownload+1))
	if err != nil {
		return nil, fmt.Errorf("unsplash: read photo body: %w", err)
	}
	if len(data) > maxImageDownload {
		return nil, fmt.Errorf("unsplash: photo exceeds %d bytes", maxImageDownload)
	}
	return data, nil
}

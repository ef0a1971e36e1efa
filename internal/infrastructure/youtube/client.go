// Package youtube searches the YouTube Data API v3 for videos to add to a
// playlist. The API key never leaves the server.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/ports"
)

const (
	defaultBaseURL    = "https://www.googleapis.com/youtube/v3"
	DefaultMaxResults = 10
	maxResultsLimit   = 50
)

var _ ports.SearchProvider = (*Client)(nil)

type Config struct {
	APIKey  string
	BaseURL string
	// RPS bounds outbound requests per second; zero or less means 5.
	RPS float64
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		log:        log,
	}
}

type thumbnail struct {
	URL string `json:"url"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title      string               `json:"title"`
			Thumbnails map[string]thumbnail `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Search returns up to max videos matching query. Duration and view counts
// come from a second call; if that call fails the results are returned
// without them.
func (c *Client) Search(ctx context.Context, query string, max int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrMissingField
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", domain.ErrSearchUnavailable)
	}
	if max <= 0 {
		max = DefaultMaxResults
	}
	if max > maxResultsLimit {
		max = maxResultsLimit
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(max))
	params.Set("q", query)

	var sr searchResponse
	if err := c.get(ctx, "/search", params, &sr); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}

	results := make([]domain.SearchResult, 0, len(sr.Items))
	ids := make([]string, 0, len(sr.Items))
	for _, item := range sr.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			VideoID:   item.ID.VideoID,
			Title:     item.Snippet.Title,
			Thumbnail: pickThumbnail(item.Snippet.Thumbnails),
		})
		ids = append(ids, item.ID.VideoID)
	}
	if len(ids) == 0 {
		return results, nil
	}

	details := url.Values{}
	details.Set("part", "contentDetails,statistics")
	details.Set("id", strings.Join(ids, ","))

	var vr videosResponse
	if err := c.get(ctx, "/videos", details, &vr); err != nil {
		c.log.Warn().Err(err).Msg("failed to load video details")
		return results, nil
	}

	byID := make(map[string]int, len(vr.Items))
	for i, v := range vr.Items {
		byID[v.ID] = i
	}
	for i := range results {
		j, ok := byID[results[i].VideoID]
		if !ok {
			continue
		}
		v := vr.Items[j]
		results[i].DurationText = FormatDuration(v.ContentDetails.Duration)
		if n, err := strconv.ParseInt(v.Statistics.ViewCount, 10, 64); err == nil {
			results[i].ViewsText = FormatViews(n)
		}
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("youtube API error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("youtube API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func pickThumbnail(thumbs map[string]thumbnail) string {
	for _, size := range []string{"medium", "high", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

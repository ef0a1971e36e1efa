package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

func searchHandler(t *testing.T, detailsStatus int) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "k" || q.Get("type") != "video" || q.Get("part") != "snippet" {
			t.Errorf("unexpected search query: %s", r.URL.RawQuery)
		}
		if q.Get("maxResults") != "2" {
			t.Errorf("expected maxResults=2, got %s", q.Get("maxResults"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": map[string]string{"videoId": "v1"}, "snippet": map[string]any{
					"title":      "First",
					"thumbnails": map[string]any{"default": map[string]string{"url": "d1"}, "medium": map[string]string{"url": "m1"}},
				}},
				{"id": map[string]string{"videoId": "v2"}, "snippet": map[string]any{
					"title":      "Second",
					"thumbnails": map[string]any{"default": map[string]string{"url": "d2"}},
				}},
				{"id": map[string]string{"channelId": "c"}, "snippet": map[string]any{"title": "channel"}},
			},
		})
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "v1,v2" {
			t.Errorf("expected ids v1,v2, got %s", got)
		}
		if detailsStatus != http.StatusOK {
			w.WriteHeader(detailsStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "v1", "contentDetails": map[string]string{"duration": "PT4M5S"}, "statistics": map[string]string{"viewCount": "1500000"}},
			},
		})
	})
	return mux
}

func TestClient_Search(t *testing.T) {
	t.Run("merges details", func(t *testing.T) {
		server := httptest.NewServer(searchHandler(t, http.StatusOK))
		defer server.Close()

		c := NewClient(Config{APIKey: "k", BaseURL: server.URL, RPS: 100}, zerolog.Nop())
		results, err := c.Search(context.Background(), "lofi", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		want := domain.SearchResult{VideoID: "v1", Title: "First", Thumbnail: "m1", DurationText: "4:05", ViewsText: "1.5M views"}
		if results[0] != want {
			t.Errorf("unexpected first result: %+v", results[0])
		}
		if results[1].Thumbnail != "d2" || results[1].DurationText != "" {
			t.Errorf("unexpected second result: %+v", results[1])
		}
	})

	t.Run("tolerates details failure", func(t *testing.T) {
		server := httptest.NewServer(searchHandler(t, http.StatusInternalServerError))
		defer server.Close()

		c := NewClient(Config{APIKey: "k", BaseURL: server.URL, RPS: 100}, zerolog.Nop())
		results, err := c.Search(context.Background(), "lofi", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 || results[0].ViewsText != "" {
			t.Fatalf("expected bare results, got %+v", results)
		}
	})

	t.Run("search failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
		}))
		defer server.Close()

		c := NewClient(Config{APIKey: "k", BaseURL: server.URL, RPS: 100}, zerolog.Nop())
		_, err := c.Search(context.Background(), "lofi", 0)
		if !errors.Is(err, domain.ErrSearchUnavailable) {
			t.Fatalf("expected ErrSearchUnavailable, got %v", err)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		c := NewClient(Config{APIKey: "k"}, zerolog.Nop())
		if _, err := c.Search(context.Background(), "  ", 5); !errors.Is(err, domain.ErrMissingField) {
			t.Fatalf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("no api key", func(t *testing.T) {
		c := NewClient(Config{}, zerolog.Nop())
		if _, err := c.Search(context.Background(), "lofi", 5); !errors.Is(err, domain.ErrSearchUnavailable) {
			t.Fatalf("expected ErrSearchUnavailable, got %v", err)
		}
	})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://x/"}, zerolog.Nop())
	if c.baseURL != "http://x" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
	if c.limiter.Limit() != 5 {
		t.Errorf("expected default limit 5, got %v", c.limiter.Limit())
	}
	if NewClient(Config{}, zerolog.Nop()).baseURL != defaultBaseURL {
		t.Errorf("expected default base URL")
	}
}

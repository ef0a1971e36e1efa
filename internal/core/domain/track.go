package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// TrackType tells playable sources apart.
type TrackType string

const (
	TrackExternalVideo TrackType = "external-video"
	TrackAudioFile     TrackType = "audio-file"

	// legacyTrackYouTube is how older documents spell TrackExternalVideo.
	legacyTrackYouTube TrackType = "youtube"
)

// FavoritesPlaylist exists for every user and can never be removed.
const FavoritesPlaylist = "Favorites"

const (
	MinRating = 0
	MaxRating = 5
)

// Track is a single playable entry in a playlist.
type Track struct {
	VideoID   string    `json:"videoId" bson:"videoId"`
	Title     string    `json:"title" bson:"title"`
	Thumbnail string    `json:"thumbnail" bson:"thumbnail"`
	Rating    int       `json:"rating" bson:"rating"`
	Type      TrackType `json:"type" bson:"type"`
	FilePath  *string   `json:"filePath" bson:"filePath"`
}

// UnmarshalJSON accepts any JSON value for rating, so a hand-edited or legacy
// document with "rating": 3.5 or "rating": "x" still loads.
func (t *Track) UnmarshalJSON(data []byte) error {
	type plain Track
	var raw struct {
		plain
		Rating any `json:"rating"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Track(raw.plain)
	t.Rating = CoerceRating(raw.Rating)
	return nil
}

// Normalize fills the defaults a stored track must carry.
func (t Track) Normalize() Track {
	switch t.Type {
	case "", legacyTrackYouTube:
		t.Type = TrackExternalVideo
	}
	if t.FilePath != nil && *t.FilePath == "" {
		t.FilePath = nil
	}
	t.Rating = ClampRating(t.Rating)
	return t
}

// ClampRating bounds r to MinRating..MaxRating.
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// CoerceRating turns an arbitrary decoded value into a rating. Anything that
// is not a finite number becomes 0; fractions are truncated and the result is
// clamped.
func CoerceRating(v any) int {
	var f float64
	switch n := v.(type) {
	case int:
		return ClampRating(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return ClampRating(int(math.Trunc(math.Max(math.Min(f, MaxRating), MinRating))))
}

// Playlists is one user's collection: playlist name to ordered tracks.
type Playlists map[string][]Track

// EnsureFavorites restores the Favorites invariant and reports whether it had
// to.
func (p Playlists) EnsureFavorites() bool {
	if _, ok := p[FavoritesPlaylist]; ok {
		return false
	}
	p[FavoritesPlaylist] = []Track{}
	return true
}

// Normalized returns a copy with every track normalized and no nil lists.
func (p Playlists) Normalized() Playlists {
	out := make(Playlists, len(p))
	for name, tracks := range p {
		list := make([]Track, 0, len(tracks))
		for _, t := range tracks {
			list = append(list, t.Normalize())
		}
		out[name] = list
	}
	return out
}

// IndexOf returns the position of videoID in the named playlist.
func (p Playlists) IndexOf(name, videoID string) (int, bool) {
	for i, t := range p[name] {
		if t.VideoID == videoID {
			return i, true
		}
	}
	return -1, false
}

// SearchResult is a candidate from the external video catalog. Duration and
// view count are display text only and never persisted.
type SearchResult struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	DurationText string `json:"durationText,omitempty"`
	ViewsText    string `json:"viewsText,omitempty"`
}

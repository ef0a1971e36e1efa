package client

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// SortMode orders the tracks of a view.
type SortMode string

const (
	SortNone   SortMode = "none"
	SortTitle  SortMode = "title"
	SortRating SortMode = "rating"
)

// ParseSortMode accepts "", none, title and rating.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNone:
		return SortNone, nil
	case SortTitle:
		return SortTitle, nil
	case SortRating:
		return SortRating, nil
	default:
		return SortNone, fmt.Errorf("unknown sort mode %q", s)
	}
}

// FilterTracks keeps the tracks whose title contains term, ignoring case. An
// empty term keeps everything. The input is never modified.
func FilterTracks(tracks []domain.Track, term string) []domain.Track {
	out := make([]domain.Track, 0, len(tracks))
	needle := strings.ToLower(strings.TrimSpace(term))
	for _, t := range tracks {
		if needle == "" || strings.Contains(strings.ToLower(t.Title), needle) {
			out = append(out, t)
		}
	}
	return out
}

// SortTracks returns a sorted copy. Title order ignores case; rating order is
// descending. Both are stable, so equal keys keep playlist order.
func SortTracks(tracks []domain.Track, mode SortMode) []domain.Track {
	out := append([]domain.Track(nil), tracks...)
	switch mode {
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	}
	return out
}

// sortedPlaylistNames lists names with Favorites first and the rest in
// case-insensitive order.
func sortedPlaylistNames(p domain.Playlists) []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == domain.FavoritesPlaylist || names[j] == domain.FavoritesPlaylist {
			return names[i] == domain.FavoritesPlaylist && names[j] != domain.FavoritesPlaylist
		}
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names
}

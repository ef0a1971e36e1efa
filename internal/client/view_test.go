package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

func sampleTracks() []domain.Track {
	return []domain.Track{
		{VideoID: "c", Title: "Cherry", Rating: 0},
		{VideoID: "a", Title: "apple", Rating: 5},
		{VideoID: "b", Title: "Banana", Rating: 2},
	}
}

func titles(tracks []domain.Track) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.Title)
	}
	return out
}

func ratings(tracks []domain.Track) []int {
	out := make([]int, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.Rating)
	}
	return out
}

func TestSortTracks(t *testing.T) {
	in := sampleTracks()

	assert.Equal(t, []string{"apple", "Banana", "Cherry"}, titles(SortTracks(in, SortTitle)))
	assert.Equal(t, []int{5, 2, 0}, ratings(SortTracks(in, SortRating)))
	assert.Equal(t, []string{"Cherry", "apple", "Banana"}, titles(SortTracks(in, SortNone)))
	assert.Equal(t, []string{"Cherry", "apple", "Banana"}, titles(in), "input must not be reordered")
}

func TestSortTracks_RatingIsStable(t *testing.T) {
	in := []domain.Track{
		{Title: "first", Rating: 3},
		{Title: "second", Rating: 3},
		{Title: "top", Rating: 4},
	}
	assert.Equal(t, []string{"top", "first", "second"}, titles(SortTracks(in, SortRating)))
}

func TestFilterTracks(t *testing.T) {
	assert.Equal(t, []string{"Banana"}, titles(FilterTracks(sampleTracks(), "an")))
	assert.Equal(t, []string{"Banana"}, titles(FilterTracks(sampleTracks(), "BAN")))
	assert.Len(t, FilterTracks(sampleTracks(), ""), 3)
	assert.Empty(t, FilterTracks(sampleTracks(), "zzz"))
}

func TestParseSortMode(t *testing.T) {
	for in, want := range map[string]SortMode{"": SortNone, "none": SortNone, "Title": SortTitle, " rating ": SortRating} {
		got, err := ParseSortMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSortMode("date")
	assert.Error(t, err)
}

func TestSortedPlaylistNames(t *testing.T) {
	p := domain.Playlists{"road trip": nil, "Favorites": nil, "Chill": nil, "abc": nil}
	assert.Equal(t, []string{"Favorites", "abc", "Chill", "road trip"}, sortedPlaylistNames(p))
}

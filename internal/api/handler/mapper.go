package handler

import "github.com/TamarElitzur/youtubePlaylists/internal/core/ports"

// --- Request → Service input ---

func toTrackInput(v *videoRequest) ports.TrackInput {
	return ports.TrackInput{
		VideoID:   v.VideoID,
		Title:     v.Title,
		Thumbnail: v.Thumbnail,
		Rating:    v.Rating,
		Type:      v.Type,
		FilePath:  v.FilePath,
	}
}

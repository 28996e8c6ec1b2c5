package repositories

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

// PlaylistRepository defines persistence for playlists and their membership.
type PlaylistRepository interface {
	// Create persists the playlist; ErrConflict when the owner already has a
	// playlist with the same name.
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error

	// AddVideo appends the video to the playlist. Adding a video that is
	// already present is a no-op.
	AddVideo(ctx context.Context, playlistID, videoID string) error
	// RemoveVideo removes the video from the playlist. Removing an absent
	// video is a no-op.
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}

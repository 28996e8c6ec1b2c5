package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/models"
)

// PlaylistStore captures the playlist persistence the endpoints need.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}

// PlaylistHandler serves playlist CRUD and membership endpoints.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Videos    VideoFinder
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create makes a new playlist for the caller. Names are unique per owner.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	var req playlistRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed playlist request")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now().UTC()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     principal.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondError(ctx, w, err, "could not create playlist")
		return
	}

	respondData(ctx, w, http.StatusCreated, newPlaylistDTO(playlist), "playlist created")
}

// Get returns a playlist with its ordered video ids.
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requirePathID(r, "playlistId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	playlist, err := h.Playlists.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, newPlaylistDTO(playlist), "playlist")
}

// ListByUser returns every playlist owned by a user.
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requirePathID(r, "userId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	playlists, err := h.Playlists.ListByOwner(ctx, userID)
	if err != nil {
		respondError(ctx, w, err, "could not list playlists")
		return
	}

	dtos := make([]playlistDTO, 0, len(playlists))
	for _, p := range playlists {
		dtos = append(dtos, newPlaylistDTO(p))
	}

	respondData(ctx, w, http.StatusOK, dtos, "playlists")
}

// Update renames a playlist or changes its description. Only the owner may
// update.
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadOwned(ctx, w, r)
	if !ok {
		return
	}

	var req playlistRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed playlist request")
		return
	}
	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Description) == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "nothing to update")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		playlist.Name = name
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		playlist.Description = description
	}
	playlist.UpdatedAt = time.Now().UTC()

	if err := h.Playlists.Update(ctx, playlist); err != nil {
		respondError(ctx, w, err, "could not update playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, newPlaylistDTO(playlist), "playlist updated")
}

// Delete removes a playlist. Only the owner may delete.
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadOwned(ctx, w, r)
	if !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		respondError(ctx, w, err, "could not delete playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "playlist deleted")
}

// AddVideo appends a video to a playlist. Adding it twice is a no-op. Only
// the owner may modify membership.
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.Playlists.AddVideo, "video added to playlist")
}

// RemoveVideo removes a video from a playlist. Removing an absent video is
// a no-op. Only the owner may modify membership.
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.Playlists.RemoveVideo, "video removed from playlist")
}

func (h *PlaylistHandler) changeMembership(w http.ResponseWriter, r *http.Request, apply func(context.Context, string, string) error, message string) {
	ctx := r.Context()

	playlist, ok := h.loadOwned(ctx, w, r)
	if !ok {
		return
	}

	videoID, err := requirePathID(r, "videoId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, err, "could not load video")
		return
	}

	if err := apply(ctx, playlist.ID, videoID); err != nil {
		respondError(ctx, w, err, "could not update playlist membership")
		return
	}

	refreshed, err := h.Playlists.FindByID(ctx, playlist.ID)
	if err != nil {
		respondError(ctx, w, err, "could not load playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, newPlaylistDTO(refreshed), message)
}

func (h *PlaylistHandler) loadOwned(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Playlist, bool) {
	id, err := requirePathID(r, "playlistId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return models.Playlist{}, false
	}

	playlist, err := h.Playlists.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load playlist")
		return models.Playlist{}, false
	}
	if _, ok := requireOwner(ctx, w, playlist.OwnerID); !ok {
		return models.Playlist{}, false
	}
	return playlist, true
}

package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/storage"
)

// VideoStore captures the video persistence the video endpoints need.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter repositories.VideoListFilter) ([]models.VideoWithOwner, int64, error)
	IncrementViews(ctx context.Context, id string) error
}

// WatchRecorder appends a playback to the viewer's watch history.
type WatchRecorder interface {
	RecordWatch(ctx context.Context, userID, videoID string) error
}

// VideoHandler serves the video catalogue and upload endpoints.
type VideoHandler struct {
	Videos    VideoStore
	History   WatchRecorder
	Storage   BlobStorage
	Prober    DurationProber
	UploadDir string
}

// List returns one page of published videos matching the query parameters.
// Requesting your own userId also includes unpublished uploads.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	page, limit := pageParams(r)
	query := r.URL.Query()
	ownerID := query.Get("userId")

	filter := repositories.VideoListFilter{
		Query:         strings.TrimSpace(query.Get("query")),
		OwnerID:       ownerID,
		PublishedOnly: ownerID == "" || ownerID != principal.ID,
		SortBy:        query.Get("sortBy"),
		SortAscending: strings.EqualFold(query.Get("sortType"), "asc"),
		Page:          page,
		Limit:         limit,
	}

	videos, total, err := h.Videos.List(ctx, filter)
	if err != nil {
		respondError(ctx, w, err, "could not list videos")
		return
	}

	meta := newPageMeta(page, limit, total)
	respondData(ctx, w, http.StatusOK, map[string]any{
		"videos":       newVideoWithOwnerDTOs(videos),
		"page":         meta.Page,
		"totalPages":   meta.TotalPages,
		"totalResults": meta.TotalResults,
	}, "videos")
}

// Publish uploads a video with its thumbnail, probes the playback duration,
// and creates the catalogue entry. If the entry cannot be written, both
// uploaded blobs are deleted again.
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx, span := logging.StartSpan(r.Context(), "video.publish")
	defer span.End()

	principal, _ := PrincipalFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	title := strings.TrimSpace(firstValue(r.MultipartForm.Value, "title"))
	description := strings.TrimSpace(firstValue(r.MultipartForm.Value, "description"))
	if title == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "title is required")
		return
	}

	videoPath, err := saveUploadedFile(r, "videoFile", h.UploadDir)
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "videoFile upload is required")
		return
	}
	thumbPath, err := saveUploadedFile(r, "thumbnail", h.UploadDir)
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "thumbnail upload is required")
		return
	}

	duration, err := h.Prober.Duration(ctx, videoPath)
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "could not read video duration")
		return
	}

	comp := storage.NewCompensator(h.Storage)

	videoObj, err := h.Storage.Upload(ctx, videoPath, objectKey("videos", videoPath))
	if err != nil {
		respondError(ctx, w, err, "could not store video file")
		return
	}
	comp.Record(videoObj)

	thumbObj, err := h.Storage.Upload(ctx, thumbPath, objectKey("thumbnails", thumbPath))
	if err != nil {
		rollbackUploads(ctx, comp)
		respondError(ctx, w, err, "could not store thumbnail")
		return
	}
	comp.Record(thumbObj)

	now := time.Now().UTC()
	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      principal.ID,
		VideoURL:     videoObj.URL,
		VideoKey:     videoObj.Key,
		ThumbnailURL: thumbObj.URL,
		ThumbnailKey: thumbObj.Key,
		Title:        title,
		Description:  description,
		Duration:     duration,
		Published:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		rollbackUploads(ctx, comp)
		respondError(ctx, w, err, "could not publish video")
		return
	}

	respondData(ctx, w, http.StatusCreated, newVideoDTO(video), "video published")
}

// Get returns a single video, counting the view and recording it in the
// viewer's watch history. Unpublished videos are visible to their owner only.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	id, err := requirePathID(r, "videoId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load video")
		return
	}

	if !video.Published && video.OwnerID != principal.ID {
		respondFailure(ctx, w, http.StatusNotFound, "resource not found")
		return
	}

	// View counting and history are best effort; a failure must not hide
	// the video itself.
	logger := logging.FromContext(ctx)
	if err := h.Videos.IncrementViews(ctx, video.ID); err != nil {
		logger.Warn("increment view count", "video_id", video.ID, "error", err)
	} else {
		video.Views++
	}
	if err := h.History.RecordWatch(ctx, principal.ID, video.ID); err != nil {
		logger.Warn("record watch history", "video_id", video.ID, "error", err)
	}

	respondData(ctx, w, http.StatusOK, newVideoDTO(video), "video")
}

// Update changes a video's title, description, or thumbnail. Only the owner
// may update.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requirePathID(r, "videoId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load video")
		return
	}
	if _, ok := requireOwner(ctx, w, video.OwnerID); !ok {
		return
	}

	title, description := "", ""
	var thumbPath string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			respondFailure(ctx, w, http.StatusBadRequest, "malformed multipart form")
			return
		}
		title = strings.TrimSpace(firstValue(r.MultipartForm.Value, "title"))
		description = strings.TrimSpace(firstValue(r.MultipartForm.Value, "description"))
		if path, err := saveUploadedFile(r, "thumbnail", h.UploadDir); err == nil {
			thumbPath = path
		}
	} else {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := decodeJSONBody(r, &req); err != nil {
			respondFailure(ctx, w, http.StatusBadRequest, "malformed video update request")
			return
		}
		title = strings.TrimSpace(req.Title)
		description = strings.TrimSpace(req.Description)
	}

	if title == "" && description == "" && thumbPath == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "nothing to update")
		return
	}

	if thumbPath != "" {
		thumbObj, err := h.Storage.Upload(ctx, thumbPath, objectKey("thumbnails", thumbPath))
		if err != nil {
			respondError(ctx, w, err, "could not store thumbnail")
			return
		}
		oldKey := video.ThumbnailKey
		video.ThumbnailURL = thumbObj.URL
		video.ThumbnailKey = thumbObj.Key
		if oldKey != "" {
			if err := h.Storage.Delete(ctx, oldKey); err != nil {
				logging.FromContext(ctx).Warn("delete replaced thumbnail", "key", oldKey, "error", err)
			}
		}
	}
	if title != "" {
		video.Title = title
	}
	if description != "" {
		video.Description = description
	}
	video.UpdatedAt = time.Now().UTC()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondError(ctx, w, err, "could not update video")
		return
	}

	respondData(ctx, w, http.StatusOK, newVideoDTO(video), "video updated")
}

// Delete removes a video and its stored blobs. Only the owner may delete.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requirePathID(r, "videoId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load video")
		return
	}
	if _, ok := requireOwner(ctx, w, video.OwnerID); !ok {
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		respondError(ctx, w, err, "could not delete video")
		return
	}

	// Blob cleanup after the row is gone; orphaned objects are logged, not
	// surfaced.
	logger := logging.FromContext(ctx)
	for _, key := range []string{video.VideoKey, video.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err := h.Storage.Delete(ctx, key); err != nil {
			logger.Warn("delete stored object", "key", key, "error", err)
		}
	}

	respondData(ctx, w, http.StatusOK, nil, "video deleted")
}

// TogglePublish flips a video between published and hidden. Only the owner
// may toggle.
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requirePathID(r, "videoId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load video")
		return
	}
	if _, ok := requireOwner(ctx, w, video.OwnerID); !ok {
		return
	}

	video.Published = !video.Published
	video.UpdatedAt = time.Now().UTC()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondError(ctx, w, err, "could not toggle publish state")
		return
	}

	respondData(ctx, w, http.StatusOK, newVideoDTO(video), "publish state toggled")
}

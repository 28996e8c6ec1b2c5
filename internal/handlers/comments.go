package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/models"
)

// CommentStore captures the comment persistence the comment endpoints need.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error
	ListByVideo(ctx context.Context, videoID string, page, limit int) ([]models.Comment, int64, error)
}

// VideoFinder resolves a video so comment writes can verify it exists.
type VideoFinder interface {
	FindByID(ctx context.Context, id string) (models.Video, error)
}

// CommentHandler serves the per-video comment thread.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoFinder
}

// List returns one page of a video's comments, newest first.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := requirePathID(r, "videoId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, err, "could not load video")
		return
	}

	page, limit := pageParams(r)
	comments, total, err := h.Comments.ListByVideo(ctx, videoID, page, limit)
	if err != nil {
		respondError(ctx, w, err, "could not list comments")
		return
	}

	dtos := make([]commentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, newCommentDTO(c))
	}

	meta := newPageMeta(page, limit, total)
	respondData(ctx, w, http.StatusOK, map[string]any{
		"comments":     dtos,
		"page":         meta.Page,
		"totalPages":   meta.TotalPages,
		"totalResults": meta.TotalResults,
	}, "comments")
}

type commentRequest struct {
	Content string `json:"content"`
}

// Create posts a comment on a video.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	videoID, err := requirePathID(r, "videoId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	var req commentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed comment request")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, err, "could not load video")
		return
	}

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        uuid.NewString(),
		OwnerID:   principal.ID,
		VideoID:   videoID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondError(ctx, w, err, "could not post comment")
		return
	}

	respondData(ctx, w, http.StatusCreated, newCommentDTO(comment), "comment posted")
}

// Update edits a comment's content. Only the author may edit.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requirePathID(r, "commentId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load comment")
		return
	}
	if _, ok := requireOwner(ctx, w, comment.OwnerID); !ok {
		return
	}

	var req commentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed comment request")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()

	if err := h.Comments.Update(ctx, comment); err != nil {
		respondError(ctx, w, err, "could not update comment")
		return
	}

	respondData(ctx, w, http.StatusOK, newCommentDTO(comment), "comment updated")
}

// Delete removes a comment. Only the author may delete.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requirePathID(r, "commentId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load comment")
		return
	}
	if _, ok := requireOwner(ctx, w, comment.OwnerID); !ok {
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		respondError(ctx, w, err, "could not delete comment")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "comment deleted")
}

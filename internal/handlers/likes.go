package handlers

import (
	"context"
	"net/http"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/relations"
)

// LikeToggleService flips a like edge on or off atomically.
type LikeToggleService interface {
	Toggle(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (relations.Outcome, models.Like, error)
}

// LikeReader exposes the like reads the endpoints need after a toggle.
type LikeReader interface {
	CountForTarget(ctx context.Context, target models.LikeTarget, targetID string) (int64, error)
	ListLikedVideos(ctx context.Context, likerID string) ([]models.VideoWithOwner, error)
}

// LikeHandler serves the like toggles and the liked-videos listing.
type LikeHandler struct {
	Toggler LikeToggleService
	Likes   LikeReader
}

func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, "videoId")
}

func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, "commentId")
}

func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, "tweetId")
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target models.LikeTarget, param string) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	targetID, err := requirePathID(r, param)
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, _, err := h.Toggler.Toggle(ctx, principal.ID, target, targetID)
	if err != nil {
		respondError(ctx, w, err, "could not toggle like")
		return
	}

	count, err := h.Likes.CountForTarget(ctx, target, targetID)
	if err != nil {
		respondError(ctx, w, err, "could not count likes")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]any{
		"liked":     outcome == relations.Added,
		"likeCount": count,
	}, "like toggled")
}

// LikedVideos returns the videos the caller has liked, newest like first.
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	videos, err := h.Likes.ListLikedVideos(ctx, principal.ID)
	if err != nil {
		respondError(ctx, w, err, "could not list liked videos")
		return
	}

	respondData(ctx, w, http.StatusOK, newVideoWithOwnerDTOs(videos), "liked videos")
}

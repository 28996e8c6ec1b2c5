package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/models"
)

// TweetStore captures the post persistence the tweet endpoints need.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
}

// TweetHandler serves the free-standing post endpoints.
type TweetHandler struct {
	Tweets TweetStore
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create posts a tweet for the authenticated user.
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	var req tweetRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed tweet request")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	now := time.Now().UTC()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   principal.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondError(ctx, w, err, "could not post tweet")
		return
	}

	respondData(ctx, w, http.StatusCreated, newTweetDTO(tweet), "tweet posted")
}

// ListByUser returns every tweet by a user, newest first.
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requirePathID(r, "userId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	tweets, err := h.Tweets.ListByOwner(ctx, userID)
	if err != nil {
		respondError(ctx, w, err, "could not list tweets")
		return
	}

	dtos := make([]tweetDTO, 0, len(tweets))
	for _, t := range tweets {
		dtos = append(dtos, newTweetDTO(t))
	}

	respondData(ctx, w, http.StatusOK, dtos, "tweets")
}

// Update edits a tweet's content. Only the author may edit.
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requirePathID(r, "tweetId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load tweet")
		return
	}
	if _, ok := requireOwner(ctx, w, tweet.OwnerID); !ok {
		return
	}

	var req tweetRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed tweet request")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	tweet.Content = content
	tweet.UpdatedAt = time.Now().UTC()

	if err := h.Tweets.Update(ctx, tweet); err != nil {
		respondError(ctx, w, err, "could not update tweet")
		return
	}

	respondData(ctx, w, http.StatusOK, newTweetDTO(tweet), "tweet updated")
}

// Delete removes a tweet. Only the author may delete.
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requirePathID(r, "tweetId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "could not load tweet")
		return
	}
	if _, ok := requireOwner(ctx, w, tweet.OwnerID); !ok {
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		respondError(ctx, w, err, "could not delete tweet")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "tweet deleted")
}

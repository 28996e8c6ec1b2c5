package repositories

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

// CommentRepository defines persistence for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error

	// ListByVideo returns one page of comments for the video, newest first,
	// plus the total comment count for the video.
	ListByVideo(ctx context.Context, videoID string, page, limit int) ([]models.Comment, int64, error)
}

// TweetRepository defines persistence for free-standing posts.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
}

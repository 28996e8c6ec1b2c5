package repositories

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

// LikeRepository persists like edges. The at-most-one-edge invariant is a
// database constraint; Insert and Delete are the two halves of an atomic
// toggle, so neither performs a read-then-write.
type LikeRepository interface {
	// Insert creates the edge unless it already exists. It reports whether a
	// row was written. Video-target inserts bump the video's denormalized
	// like counter in the same transaction.
	Insert(ctx context.Context, like models.Like) (bool, error)
	// Delete removes the edge for (liker, target) and reports whether a row
	// existed. Video-target deletes decrement the like counter in the same
	// transaction.
	Delete(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (bool, error)
	Find(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (models.Like, error)

	// TargetExists reports whether the liked entity itself exists.
	TargetExists(ctx context.Context, target models.LikeTarget, targetID string) (bool, error)

	// CountForTarget returns the number of like edges pointing at the target.
	CountForTarget(ctx context.Context, target models.LikeTarget, targetID string) (int64, error)

	// ListLikedVideos returns the videos the account has liked, newest like first.
	ListLikedVideos(ctx context.Context, likerID string) ([]models.VideoWithOwner, error)
}

// SubscriptionRepository persists subscriber→channel edges with the same
// atomic insert/delete contract as likes.
type SubscriptionRepository interface {
	Insert(ctx context.Context, sub models.Subscription) (bool, error)
	Delete(ctx context.Context, subscriberID, channelID string) (bool, error)
	Find(ctx context.Context, subscriberID, channelID string) (models.Subscription, error)

	// ListSubscribers returns the public profiles of accounts subscribed to
	// the channel, newest subscription first.
	ListSubscribers(ctx context.Context, channelID string) ([]models.UserProfile, error)
	// ListChannels returns the public profiles of channels the account is
	// subscribed to, newest subscription first.
	ListChannels(ctx context.Context, subscriberID string) ([]models.UserProfile, error)
}

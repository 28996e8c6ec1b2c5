// Package relations implements the toggle semantics shared by likes and
// subscriptions: an edge is created when absent and removed when present,
// with the at-most-one-edge invariant enforced by the store's unique
// constraints rather than a read-then-write.
package relations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// ErrSelfSubscription indicates an account tried to subscribe to itself.
var ErrSelfSubscription = errors.New("cannot subscribe to own channel")

// Outcome reports which way a toggle flipped.
type Outcome string

const (
	// Added means the edge did not exist and was created.
	Added Outcome = "added"
	// Removed means the edge existed and was deleted.
	Removed Outcome = "removed"
)

// LikeStore is the edge persistence the like toggler drives.
type LikeStore interface {
	Insert(ctx context.Context, like models.Like) (bool, error)
	Delete(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (bool, error)
	Find(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (models.Like, error)
	TargetExists(ctx context.Context, target models.LikeTarget, targetID string) (bool, error)
}

// LikeToggler flips like edges for videos, comments, and tweets.
type LikeToggler struct {
	Likes LikeStore
	NewID func() string
	Now   func() time.Time
}

// NewLikeToggler constructs a toggler over the given edge store.
func NewLikeToggler(likes LikeStore) *LikeToggler {
	return &LikeToggler{Likes: likes, NewID: uuid.NewString, Now: time.Now}
}

// Toggle removes the (liker, target) edge when present, otherwise creates it.
// It returns the surviving edge on Added and the zero Like on Removed.
func (t *LikeToggler) Toggle(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (Outcome, models.Like, error) {
	exists, err := t.Likes.TargetExists(ctx, target, targetID)
	if err != nil {
		return "", models.Like{}, err
	}
	if !exists {
		return "", models.Like{}, repositories.ErrNotFound
	}

	deleted, err := t.Likes.Delete(ctx, likerID, target, targetID)
	if err != nil {
		return "", models.Like{}, err
	}
	if deleted {
		return Removed, models.Like{}, nil
	}

	like := models.Like{
		ID:        t.NewID(),
		LikerID:   likerID,
		CreatedAt: t.Now().UTC(),
	}
	switch target {
	case models.LikeTargetVideo:
		like.VideoID = targetID
	case models.LikeTargetComment:
		like.CommentID = targetID
	case models.LikeTargetTweet:
		like.TweetID = targetID
	}

	inserted, err := t.Likes.Insert(ctx, like)
	if err != nil {
		return "", models.Like{}, err
	}
	if inserted {
		return Added, like, nil
	}

	// A concurrent toggle created the edge between our delete and insert;
	// report the surviving edge rather than failing the request.
	existing, err := t.Likes.Find(ctx, likerID, target, targetID)
	if err != nil {
		return "", models.Like{}, err
	}
	return Added, existing, nil
}

// SubscriptionStore is the edge persistence the subscription toggler drives.
type SubscriptionStore interface {
	Insert(ctx context.Context, sub models.Subscription) (bool, error)
	Delete(ctx context.Context, subscriberID, channelID string) (bool, error)
	Find(ctx context.Context, subscriberID, channelID string) (models.Subscription, error)
}

// ChannelChecker verifies the target channel account exists.
type ChannelChecker interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// SubscriptionToggler flips subscriber→channel edges.
type SubscriptionToggler struct {
	Subscriptions SubscriptionStore
	Channels      ChannelChecker
	NewID         func() string
	Now           func() time.Time
}

// NewSubscriptionToggler constructs a toggler over the given stores.
func NewSubscriptionToggler(subs SubscriptionStore, channels ChannelChecker) *SubscriptionToggler {
	return &SubscriptionToggler{
		Subscriptions: subs,
		Channels:      channels,
		NewID:         uuid.NewString,
		Now:           time.Now,
	}
}

// Toggle removes the subscription when present, otherwise creates it.
// Self-subscription is rejected before any lookup.
func (t *SubscriptionToggler) Toggle(ctx context.Context, subscriberID, channelID string) (Outcome, models.Subscription, error) {
	if subscriberID == channelID {
		return "", models.Subscription{}, ErrSelfSubscription
	}

	if _, err := t.Channels.FindByID(ctx, channelID); err != nil {
		return "", models.Subscription{}, err
	}

	deleted, err := t.Subscriptions.Delete(ctx, subscriberID, channelID)
	if err != nil {
		return "", models.Subscription{}, err
	}
	if deleted {
		return Removed, models.Subscription{}, nil
	}

	sub := models.Subscription{
		ID:           t.NewID(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    t.Now().UTC(),
	}

	inserted, err := t.Subscriptions.Insert(ctx, sub)
	if err != nil {
		return "", models.Subscription{}, err
	}
	if inserted {
		return Added, sub, nil
	}

	existing, err := t.Subscriptions.Find(ctx, subscriberID, channelID)
	if err != nil {
		return "", models.Subscription{}, err
	}
	return Added, existing, nil
}

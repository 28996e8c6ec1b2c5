package relations

import (
	"context"
	"errors"
	"testing"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

type edgeKey struct {
	liker    string
	target   models.LikeTarget
	targetID string
}

type inMemoryLikeStore struct {
	targets map[string]bool
	edges   map[edgeKey]models.Like

	// insertConflict makes the next Insert report that a concurrent writer
	// already created the edge.
	insertConflict bool
}

func newInMemoryLikeStore(targetIDs ...string) *inMemoryLikeStore {
	targets := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		targets[id] = true
	}
	return &inMemoryLikeStore{targets: targets, edges: make(map[edgeKey]models.Like)}
}

func (s *inMemoryLikeStore) key(like models.Like) edgeKey {
	switch {
	case like.VideoID != "":
		return edgeKey{like.LikerID, models.LikeTargetVideo, like.VideoID}
	case like.CommentID != "":
		return edgeKey{like.LikerID, models.LikeTargetComment, like.CommentID}
	default:
		return edgeKey{like.LikerID, models.LikeTargetTweet, like.TweetID}
	}
}

func (s *inMemoryLikeStore) Insert(_ context.Context, like models.Like) (bool, error) {
	if s.insertConflict {
		s.insertConflict = false
		s.edges[s.key(like)] = models.Like{ID: "winner", LikerID: like.LikerID, VideoID: like.VideoID, CommentID: like.CommentID, TweetID: like.TweetID}
		return false, nil
	}
	k := s.key(like)
	if _, ok := s.edges[k]; ok {
		return false, nil
	}
	s.edges[k] = like
	return true, nil
}

func (s *inMemoryLikeStore) Delete(_ context.Context, likerID string, target models.LikeTarget, targetID string) (bool, error) {
	k := edgeKey{likerID, target, targetID}
	if _, ok := s.edges[k]; !ok {
		return false, nil
	}
	delete(s.edges, k)
	return true, nil
}

func (s *inMemoryLikeStore) Find(_ context.Context, likerID string, target models.LikeTarget, targetID string) (models.Like, error) {
	like, ok := s.edges[edgeKey{likerID, target, targetID}]
	if !ok {
		return models.Like{}, repositories.ErrNotFound
	}
	return like, nil
}

func (s *inMemoryLikeStore) TargetExists(_ context.Context, _ models.LikeTarget, targetID string) (bool, error) {
	return s.targets[targetID], nil
}

func TestLikeTogglerAddThenRemove(t *testing.T) {
	store := newInMemoryLikeStore("video-1")
	toggler := NewLikeToggler(store)
	ctx := context.Background()

	outcome, like, err := toggler.Toggle(ctx, "user-1", models.LikeTargetVideo, "video-1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if outcome != Added {
		t.Fatalf("expected Added, got %s", outcome)
	}
	if like.VideoID != "video-1" || like.LikerID != "user-1" {
		t.Fatalf("unexpected edge: %+v", like)
	}

	outcome, _, err = toggler.Toggle(ctx, "user-1", models.LikeTargetVideo, "video-1")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if outcome != Removed {
		t.Fatalf("expected Removed, got %s", outcome)
	}

	if len(store.edges) != 0 {
		t.Fatalf("expected double toggle to restore initial state, got %d edges", len(store.edges))
	}
}

func TestLikeTogglerTargetKinds(t *testing.T) {
	store := newInMemoryLikeStore("target-1")
	toggler := NewLikeToggler(store)
	ctx := context.Background()

	cases := []struct {
		target models.LikeTarget
		field  func(models.Like) string
	}{
		{models.LikeTargetVideo, func(l models.Like) string { return l.VideoID }},
		{models.LikeTargetComment, func(l models.Like) string { return l.CommentID }},
		{models.LikeTargetTweet, func(l models.Like) string { return l.TweetID }},
	}

	for _, tc := range cases {
		_, like, err := toggler.Toggle(ctx, "user-1", tc.target, "target-1")
		if err != nil {
			t.Fatalf("toggle %s: %v", tc.target, err)
		}
		if tc.field(like) != "target-1" {
			t.Fatalf("expected %s id to be set on edge, got %+v", tc.target, like)
		}
	}
}

func TestLikeTogglerMissingTarget(t *testing.T) {
	toggler := NewLikeToggler(newInMemoryLikeStore())

	_, _, err := toggler.Toggle(context.Background(), "user-1", models.LikeTargetVideo, "missing")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing target, got %v", err)
	}
}

func TestLikeTogglerConcurrentInsertReportsSurvivingEdge(t *testing.T) {
	store := newInMemoryLikeStore("video-1")
	store.insertConflict = true
	toggler := NewLikeToggler(store)

	outcome, like, err := toggler.Toggle(context.Background(), "user-1", models.LikeTargetVideo, "video-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if outcome != Added {
		t.Fatalf("expected Added when a concurrent writer won, got %s", outcome)
	}
	if like.ID != "winner" {
		t.Fatalf("expected the surviving edge, got %+v", like)
	}
}

type inMemorySubStore struct {
	edges map[[2]string]models.Subscription
}

func newInMemorySubStore() *inMemorySubStore {
	return &inMemorySubStore{edges: make(map[[2]string]models.Subscription)}
}

func (s *inMemorySubStore) Insert(_ context.Context, sub models.Subscription) (bool, error) {
	k := [2]string{sub.SubscriberID, sub.ChannelID}
	if _, ok := s.edges[k]; ok {
		return false, nil
	}
	s.edges[k] = sub
	return true, nil
}

func (s *inMemorySubStore) Delete(_ context.Context, subscriberID, channelID string) (bool, error) {
	k := [2]string{subscriberID, channelID}
	if _, ok := s.edges[k]; !ok {
		return false, nil
	}
	delete(s.edges, k)
	return true, nil
}

func (s *inMemorySubStore) Find(_ context.Context, subscriberID, channelID string) (models.Subscription, error) {
	sub, ok := s.edges[[2]string{subscriberID, channelID}]
	if !ok {
		return models.Subscription{}, repositories.ErrNotFound
	}
	return sub, nil
}

type staticChannels map[string]models.User

func (c staticChannels) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := c[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func TestSubscriptionTogglerAddThenRemove(t *testing.T) {
	store := newInMemorySubStore()
	channels := staticChannels{"channel-1": {ID: "channel-1"}}
	toggler := NewSubscriptionToggler(store, channels)
	ctx := context.Background()

	outcome, sub, err := toggler.Toggle(ctx, "user-1", "channel-1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if outcome != Added || sub.ChannelID != "channel-1" {
		t.Fatalf("unexpected outcome %s %+v", outcome, sub)
	}

	outcome, _, err = toggler.Toggle(ctx, "user-1", "channel-1")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if outcome != Removed {
		t.Fatalf("expected Removed, got %s", outcome)
	}
	if len(store.edges) != 0 {
		t.Fatalf("expected no edges after double toggle, got %d", len(store.edges))
	}
}

func TestSubscriptionTogglerRejectsSelf(t *testing.T) {
	toggler := NewSubscriptionToggler(newInMemorySubStore(), staticChannels{"user-1": {ID: "user-1"}})

	_, _, err := toggler.Toggle(context.Background(), "user-1", "user-1")
	if !errors.Is(err, ErrSelfSubscription) {
		t.Fatalf("expected ErrSelfSubscription, got %v", err)
	}
}

func TestSubscriptionTogglerMissingChannel(t *testing.T) {
	toggler := NewSubscriptionToggler(newInMemorySubStore(), staticChannels{})

	_, _, err := toggler.Toggle(context.Background(), "user-1", "ghost")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown channel, got %v", err)
	}
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipstream/backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresUserRepository_CreateFindAndUpdate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)

	user := models.User{
		ID:        uuid.NewString(),
		Username:  "alice",
		Email:     "alice@example.com",
		FullName:  "Alice Example",
		Password:  "secret-hash",
		AvatarURL: "https://cdn.example.com/avatars/alice.png",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	dupUsername := user
	dupUsername.ID = uuid.NewString()
	dupUsername.Email = "other@example.com"
	if err := repo.Create(ctx, dupUsername); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}

	dupEmail := user
	dupEmail.ID = uuid.NewString()
	dupEmail.Username = "someone-else"
	if err := repo.Create(ctx, dupEmail); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}

	byUsername, err := repo.FindByIdentifier(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byUsername.ID != user.ID || byUsername.Password != user.Password {
		t.Fatalf("unexpected user by username: %+v", byUsername)
	}

	byEmail, err := repo.FindByIdentifier(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected id %s by email, got %s", user.ID, byEmail.ID)
	}

	if _, err := repo.FindByIdentifier(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown identifier, got %v", err)
	}

	user.FullName = "Alice Q. Example"
	user.Email = "alice.q@example.com"
	user.CoverURL = "https://cdn.example.com/covers/alice.png"
	user.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("update user: %v", err)
	}

	fetched, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id after update: %v", err)
	}
	if fetched.FullName != "Alice Q. Example" || fetched.Email != "alice.q@example.com" || fetched.CoverURL != user.CoverURL {
		t.Fatalf("update not persisted: %+v", fetched)
	}
}

func TestPostgresUserRepository_SwapRefreshToken(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createTestUser(t, repo, "rotator")

	if err := repo.SetRefreshToken(ctx, user.ID, "first"); err != nil {
		t.Fatalf("set refresh token: %v", err)
	}

	swapped, err := repo.SwapRefreshToken(ctx, user.ID, "first", "second")
	if err != nil {
		t.Fatalf("swap refresh token: %v", err)
	}
	if !swapped {
		t.Fatal("expected swap with current token to succeed")
	}

	stale, err := repo.SwapRefreshToken(ctx, user.ID, "first", "third")
	if err != nil {
		t.Fatalf("swap with stale token: %v", err)
	}
	if stale {
		t.Fatal("expected swap with stale token to report false")
	}

	fetched, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.RefreshToken != "second" {
		t.Fatalf("expected stored token %q, got %q", "second", fetched.RefreshToken)
	}

	if err := repo.SetRefreshToken(ctx, user.ID, ""); err != nil {
		t.Fatalf("clear refresh token: %v", err)
	}
	fetched, err = repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id after clear: %v", err)
	}
	if fetched.RefreshToken != "" {
		t.Fatalf("expected cleared token, got %q", fetched.RefreshToken)
	}
}

func TestPostgresVideoRepository_ListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	repo := NewPostgresVideoRepository(testPool)

	alice := createTestUser(t, users, "alice")
	bob := createTestUser(t, users, "bob")

	base := time.Now().UTC().Add(-time.Hour)
	createTestVideo(t, repo, videoSeed{owner: alice.ID, title: "gopher tricks", published: true, views: 10, createdAt: base})
	createTestVideo(t, repo, videoSeed{owner: alice.ID, title: "gopher tips", published: true, views: 30, createdAt: base.Add(time.Minute)})
	createTestVideo(t, repo, videoSeed{owner: alice.ID, title: "gopher drafts", published: false, views: 0, createdAt: base.Add(2 * time.Minute)})
	createTestVideo(t, repo, videoSeed{owner: bob.ID, title: "cooking pasta", published: true, views: 20, createdAt: base.Add(3 * time.Minute)})

	published, total, err := repo.List(ctx, VideoListFilter{PublishedOnly: true, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if total != 3 || len(published) != 3 {
		t.Fatalf("expected 3 published videos, got total=%d len=%d", total, len(published))
	}
	for _, video := range published {
		if !video.Published {
			t.Fatalf("unpublished video %q leaked into published listing", video.Title)
		}
		if video.Owner.Username == "" {
			t.Fatalf("owner projection missing for %q", video.Title)
		}
	}

	matched, total, err := repo.List(ctx, VideoListFilter{Query: "gopher", PublishedOnly: true, Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("list by query: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 gopher videos, got %d", total)
	}
	if len(matched) != 1 {
		t.Fatalf("expected 1 video on page, got %d", len(matched))
	}

	ownerAll, total, err := repo.List(ctx, VideoListFilter{OwnerID: alice.ID, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if total != 3 || len(ownerAll) != 3 {
		t.Fatalf("expected drafts included for owner listing, got total=%d", total)
	}

	byViews, _, err := repo.List(ctx, VideoListFilter{PublishedOnly: true, SortBy: "views", SortAscending: true, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list sorted by views: %v", err)
	}
	for i := 1; i < len(byViews); i++ {
		if byViews[i].Views < byViews[i-1].Views {
			t.Fatalf("expected ascending views, got %d before %d", byViews[i-1].Views, byViews[i].Views)
		}
	}
}

func TestPostgresVideoRepository_LifecycleAndViews(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	repo := NewPostgresVideoRepository(testPool)

	owner := createTestUser(t, users, "uploader")
	video := createTestVideo(t, repo, videoSeed{owner: owner.ID, title: "first cut", published: true, createdAt: time.Now().UTC()})

	if err := repo.IncrementViews(ctx, video.ID); err != nil {
		t.Fatalf("increment views: %v", err)
	}
	if err := repo.IncrementViews(ctx, video.ID); err != nil {
		t.Fatalf("increment views again: %v", err)
	}

	fetched, err := repo.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.Views != 2 {
		t.Fatalf("expected 2 views, got %d", fetched.Views)
	}

	fetched.Title = "final cut"
	fetched.Published = false
	fetched.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, fetched); err != nil {
		t.Fatalf("update video: %v", err)
	}

	updated, err := repo.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if updated.Title != "final cut" || updated.Published {
		t.Fatalf("update not persisted: %+v", updated)
	}

	owned, err := repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != video.ID {
		t.Fatalf("unexpected owner listing: %+v", owned)
	}

	if err := repo.Delete(ctx, video.ID); err != nil {
		t.Fatalf("delete video: %v", err)
	}
	if _, err := repo.FindByID(ctx, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.IncrementViews(ctx, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound incrementing deleted video, got %v", err)
	}
}

func TestPostgresLikeRepository_VideoEdgeAndCounter(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	repo := NewPostgresLikeRepository(testPool)

	owner := createTestUser(t, users, "creator")
	fan := createTestUser(t, users, "fan")
	video := createTestVideo(t, videos, videoSeed{owner: owner.ID, title: "likeable", published: true, createdAt: time.Now().UTC()})

	like := models.Like{
		ID:        uuid.NewString(),
		LikerID:   fan.ID,
		VideoID:   video.ID,
		CreatedAt: time.Now().UTC(),
	}

	inserted, err := repo.Insert(ctx, like)
	if err != nil {
		t.Fatalf("insert like: %v", err)
	}
	if !inserted {
		t.Fatal("expected first insert to create the edge")
	}

	again := like
	again.ID = uuid.NewString()
	inserted, err = repo.Insert(ctx, again)
	if err != nil {
		t.Fatalf("insert duplicate like: %v", err)
	}
	if inserted {
		t.Fatal("expected duplicate insert to be a no-op")
	}

	liked, err := videos.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find liked video: %v", err)
	}
	if liked.LikeCount != 1 {
		t.Fatalf("expected like_count 1 after duplicate insert, got %d", liked.LikeCount)
	}

	count, err := repo.CountForTarget(ctx, models.LikeTargetVideo, video.ID)
	if err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 like edge, got %d", count)
	}

	likedVideos, err := repo.ListLikedVideos(ctx, fan.ID)
	if err != nil {
		t.Fatalf("list liked videos: %v", err)
	}
	if len(likedVideos) != 1 || likedVideos[0].ID != video.ID || likedVideos[0].Owner.Username != "creator" {
		t.Fatalf("unexpected liked videos: %+v", likedVideos)
	}

	deleted, err := repo.Delete(ctx, fan.ID, models.LikeTargetVideo, video.ID)
	if err != nil {
		t.Fatalf("delete like: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to remove the edge")
	}

	deleted, err = repo.Delete(ctx, fan.ID, models.LikeTargetVideo, video.ID)
	if err != nil {
		t.Fatalf("delete absent like: %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to report no edge")
	}

	unliked, err := videos.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find unliked video: %v", err)
	}
	if unliked.LikeCount != 0 {
		t.Fatalf("expected like_count 0 after unlike, got %d", unliked.LikeCount)
	}
}

func TestPostgresLikeRepository_CommentEdgeAndTargetCheck(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	comments := NewPostgresCommentRepository(testPool)
	repo := NewPostgresLikeRepository(testPool)

	owner := createTestUser(t, users, "author")
	video := createTestVideo(t, videos, videoSeed{owner: owner.ID, title: "threaded", published: true, createdAt: time.Now().UTC()})

	comment := models.Comment{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		VideoID:   video.ID,
		Content:   "first",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := comments.Create(ctx, comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	inserted, err := repo.Insert(ctx, models.Like{
		ID:        uuid.NewString(),
		LikerID:   owner.ID,
		CommentID: comment.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert comment like: %v", err)
	}
	if !inserted {
		t.Fatal("expected comment like to be created")
	}

	found, err := repo.Find(ctx, owner.ID, models.LikeTargetComment, comment.ID)
	if err != nil {
		t.Fatalf("find comment like: %v", err)
	}
	if found.CommentID != comment.ID || found.VideoID != "" {
		t.Fatalf("unexpected like edge: %+v", found)
	}

	exists, err := repo.TargetExists(ctx, models.LikeTargetComment, comment.ID)
	if err != nil {
		t.Fatalf("check comment target: %v", err)
	}
	if !exists {
		t.Fatal("expected comment target to exist")
	}

	exists, err = repo.TargetExists(ctx, models.LikeTargetTweet, uuid.NewString())
	if err != nil {
		t.Fatalf("check unknown tweet target: %v", err)
	}
	if exists {
		t.Fatal("expected unknown tweet target to be absent")
	}

	if _, err := repo.Insert(ctx, models.Like{
		ID:        uuid.NewString(),
		LikerID:   owner.ID,
		TweetID:   uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound liking a missing tweet, got %v", err)
	}
}

func TestPostgresSubscriptionRepository_EdgesAndListings(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	repo := NewPostgresSubscriptionRepository(testPool)

	channel := createTestUser(t, users, "channel")
	viewer := createTestUser(t, users, "viewer")
	other := createTestUser(t, users, "other")

	sub := models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: viewer.ID,
		ChannelID:    channel.ID,
		CreatedAt:    time.Now().UTC(),
	}

	inserted, err := repo.Insert(ctx, sub)
	if err != nil {
		t.Fatalf("insert subscription: %v", err)
	}
	if !inserted {
		t.Fatal("expected first insert to create the edge")
	}

	dup := sub
	dup.ID = uuid.NewString()
	inserted, err = repo.Insert(ctx, dup)
	if err != nil {
		t.Fatalf("insert duplicate subscription: %v", err)
	}
	if inserted {
		t.Fatal("expected duplicate insert to be a no-op")
	}

	if _, err := repo.Insert(ctx, models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: channel.ID,
		ChannelID:    channel.ID,
		CreatedAt:    time.Now().UTC(),
	}); err == nil {
		t.Fatal("expected self-subscription insert to be rejected by the schema")
	}

	if _, err := repo.Insert(ctx, models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: other.ID,
		ChannelID:    channel.ID,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("insert second subscriber: %v", err)
	}

	subscribers, err := repo.ListSubscribers(ctx, channel.ID)
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subscribers) != 2 {
		t.Fatalf("expected 2 subscribers, got %d", len(subscribers))
	}

	channels, err := repo.ListChannels(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("list channels: %v", err)
	}
	if len(channels) != 1 || channels[0].Username != "channel" {
		t.Fatalf("unexpected channels: %+v", channels)
	}

	deleted, err := repo.Delete(ctx, viewer.ID, channel.ID)
	if err != nil {
		t.Fatalf("delete subscription: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to remove the edge")
	}

	if _, err := repo.Find(ctx, viewer.ID, channel.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after unsubscribe, got %v", err)
	}
}

func TestPostgresUserRepository_ChannelProfileAndStats(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	subs := NewPostgresSubscriptionRepository(testPool)
	likes := NewPostgresLikeRepository(testPool)

	creator := createTestUser(t, users, "creator")
	fanOne := createTestUser(t, users, "fan-one")
	fanTwo := createTestUser(t, users, "fan-two")

	first := createTestVideo(t, videos, videoSeed{owner: creator.ID, title: "episode one", published: true, views: 4, createdAt: time.Now().UTC()})
	createTestVideo(t, videos, videoSeed{owner: creator.ID, title: "episode two", published: true, views: 3, createdAt: time.Now().UTC()})

	for _, fan := range []models.User{fanOne, fanTwo} {
		if _, err := subs.Insert(ctx, models.Subscription{
			ID:           uuid.NewString(),
			SubscriberID: fan.ID,
			ChannelID:    creator.ID,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			t.Fatalf("subscribe %s: %v", fan.Username, err)
		}
	}
	if _, err := subs.Insert(ctx, models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: creator.ID,
		ChannelID:    fanOne.ID,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("subscribe creator to fan: %v", err)
	}

	if _, err := likes.Insert(ctx, models.Like{
		ID:        uuid.NewString(),
		LikerID:   fanOne.ID,
		VideoID:   first.ID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("like video: %v", err)
	}

	profile, err := users.ChannelProfile(ctx, "creator", fanOne.ID)
	if err != nil {
		t.Fatalf("channel profile: %v", err)
	}
	if profile.SubscriberCount != 2 {
		t.Fatalf("expected 2 subscribers, got %d", profile.SubscriberCount)
	}
	if profile.SubscribedToNum != 1 {
		t.Fatalf("expected 1 outbound subscription, got %d", profile.SubscribedToNum)
	}
	if !profile.ViewerSubscribed {
		t.Fatal("expected viewer to be marked subscribed")
	}

	stranger, err := users.ChannelProfile(ctx, "creator", "")
	if err != nil {
		t.Fatalf("channel profile for anonymous viewer: %v", err)
	}
	if stranger.ViewerSubscribed {
		t.Fatal("expected anonymous viewer to be unsubscribed")
	}

	if _, err := users.ChannelProfile(ctx, "ghost", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown channel, got %v", err)
	}

	stats, err := users.ChannelStats(ctx, creator.ID)
	if err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if stats.TotalViews != 7 || stats.TotalVideos != 2 || stats.TotalSubscribers != 2 || stats.TotalLikes != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPostgresUserRepository_WatchHistoryOrdering(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)

	owner := createTestUser(t, users, "studio")
	watcher := createTestUser(t, users, "watcher")

	first := createTestVideo(t, videos, videoSeed{owner: owner.ID, title: "part one", published: true, createdAt: time.Now().UTC()})
	second := createTestVideo(t, videos, videoSeed{owner: owner.ID, title: "part two", published: true, createdAt: time.Now().UTC()})

	if err := users.RecordWatch(ctx, watcher.ID, first.ID); err != nil {
		t.Fatalf("record first watch: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := users.RecordWatch(ctx, watcher.ID, second.ID); err != nil {
		t.Fatalf("record second watch: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := users.RecordWatch(ctx, watcher.ID, first.ID); err != nil {
		t.Fatalf("rewatch first video: %v", err)
	}

	history, err := users.WatchHistory(ctx, watcher.ID)
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Video.ID != first.ID {
		t.Fatalf("expected rewatched video first, got %q", history[0].Video.Title)
	}
	if history[0].Video.Owner.Username != "studio" {
		t.Fatalf("owner projection missing: %+v", history[0].Video.Owner)
	}
	if !history[0].WatchedAt.After(history[1].WatchedAt) {
		t.Fatal("expected history sorted most recent first")
	}

	if err := users.RecordWatch(ctx, watcher.ID, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound recording watch of missing video, got %v", err)
	}
}

func TestPostgresPlaylistRepository_MembershipLifecycle(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	repo := NewPostgresPlaylistRepository(testPool)

	owner := createTestUser(t, users, "curator")
	first := createTestVideo(t, videos, videoSeed{owner: owner.ID, title: "opening", published: true, createdAt: time.Now().UTC()})
	second := createTestVideo(t, videos, videoSeed{owner: owner.ID, title: "closing", published: true, createdAt: time.Now().UTC()})

	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     owner.ID,
		Name:        "favorites",
		Description: "keepers",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := repo.Create(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	dup := playlist
	dup.ID = uuid.NewString()
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate playlist name, got %v", err)
	}

	if err := repo.AddVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("add first video: %v", err)
	}
	if err := repo.AddVideo(ctx, playlist.ID, second.ID); err != nil {
		t.Fatalf("add second video: %v", err)
	}
	if err := repo.AddVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("re-add first video: %v", err)
	}

	fetched, err := repo.FindByID(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("find playlist: %v", err)
	}
	if len(fetched.VideoIDs) != 2 {
		t.Fatalf("expected 2 member videos, got %v", fetched.VideoIDs)
	}
	if fetched.VideoIDs[0] != first.ID || fetched.VideoIDs[1] != second.ID {
		t.Fatalf("expected insertion order preserved, got %v", fetched.VideoIDs)
	}

	if err := repo.AddVideo(ctx, playlist.ID, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound adding a missing video, got %v", err)
	}

	if err := repo.RemoveVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("remove video: %v", err)
	}
	if err := repo.RemoveVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("remove absent video should be a no-op: %v", err)
	}

	fetched, err = repo.FindByID(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("find playlist after removal: %v", err)
	}
	if len(fetched.VideoIDs) != 1 || fetched.VideoIDs[0] != second.ID {
		t.Fatalf("expected only second video to remain, got %v", fetched.VideoIDs)
	}

	fetched.Name = "keepers"
	fetched.Description = "renamed"
	fetched.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, fetched); err != nil {
		t.Fatalf("update playlist: %v", err)
	}

	owned, err := repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(owned) != 1 || owned[0].Name != "keepers" {
		t.Fatalf("unexpected owner playlists: %+v", owned)
	}

	if err := repo.Delete(ctx, playlist.ID); err != nil {
		t.Fatalf("delete playlist: %v", err)
	}
	if _, err := repo.FindByID(ctx, playlist.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgresCommentRepository_PaginatedListing(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	repo := NewPostgresCommentRepository(testPool)

	owner := createTestUser(t, users, "host")
	video := createTestVideo(t, videos, videoSeed{owner: owner.ID, title: "discussion", published: true, createdAt: time.Now().UTC()})

	base := time.Now().UTC().Add(-time.Minute)
	var newest models.Comment
	for i := 0; i < 3; i++ {
		newest = models.Comment{
			ID:        uuid.NewString(),
			OwnerID:   owner.ID,
			VideoID:   video.ID,
			Content:   fmt.Sprintf("comment %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			UpdatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, newest); err != nil {
			t.Fatalf("create comment %d: %v", i, err)
		}
	}

	page, total, err := repo.ListByVideo(ctx, video.ID, 1, 2)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 total comments, got %d", total)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 comments on first page, got %d", len(page))
	}
	if page[0].ID != newest.ID {
		t.Fatalf("expected newest comment first, got %q", page[0].Content)
	}

	rest, _, err := repo.ListByVideo(ctx, video.ID, 2, 2)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("expected 1 comment on second page, got %d", len(rest))
	}

	newest.Content = "edited"
	newest.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, newest); err != nil {
		t.Fatalf("update comment: %v", err)
	}
	fetched, err := repo.FindByID(ctx, newest.ID)
	if err != nil {
		t.Fatalf("find comment: %v", err)
	}
	if fetched.Content != "edited" {
		t.Fatalf("expected edited content, got %q", fetched.Content)
	}

	if err := repo.Delete(ctx, newest.ID); err != nil {
		t.Fatalf("delete comment: %v", err)
	}
	if _, err := repo.FindByID(ctx, newest.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgresTweetRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	repo := NewPostgresTweetRepository(testPool)

	author := createTestUser(t, users, "poster")
	other := createTestUser(t, users, "lurker")

	base := time.Now().UTC().Add(-time.Minute)
	first := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   author.ID,
		Content:   "hello",
		CreatedAt: base,
		UpdatedAt: base,
	}
	second := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   author.ID,
		Content:   "again",
		CreatedAt: base.Add(time.Second),
		UpdatedAt: base.Add(time.Second),
	}
	for _, tweet := range []models.Tweet{first, second} {
		if err := repo.Create(ctx, tweet); err != nil {
			t.Fatalf("create tweet: %v", err)
		}
	}

	owned, err := repo.ListByOwner(ctx, author.ID)
	if err != nil {
		t.Fatalf("list tweets: %v", err)
	}
	if len(owned) != 2 || owned[0].ID != second.ID {
		t.Fatalf("expected newest-first tweets, got %+v", owned)
	}

	empty, err := repo.ListByOwner(ctx, other.ID)
	if err != nil {
		t.Fatalf("list tweets for lurker: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no tweets for lurker, got %d", len(empty))
	}

	first.Content = "hello, edited"
	first.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("update tweet: %v", err)
	}
	fetched, err := repo.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("find tweet: %v", err)
	}
	if fetched.Content != "hello, edited" {
		t.Fatalf("expected edited content, got %q", fetched.Content)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete tweet: %v", err)
	}
	if _, err := repo.FindByID(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE likes, subscriptions, playlist_videos, playlists, watch_history, comments, tweets, videos, users CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, repo *PostgresUserRepository, username string) models.User {
	t.Helper()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     username + "@example.com",
		FullName:  "Test " + username,
		Password:  "password-hash",
		AvatarURL: "https://cdn.example.com/avatars/" + username + ".png",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

type videoSeed struct {
	owner     string
	title     string
	published bool
	views     int64
	createdAt time.Time
}

func createTestVideo(t *testing.T, repo *PostgresVideoRepository, seed videoSeed) models.Video {
	t.Helper()
	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      seed.owner,
		VideoURL:     "https://cdn.example.com/videos/" + seed.title + ".mp4",
		VideoKey:     "videos/" + seed.title + ".mp4",
		ThumbnailURL: "https://cdn.example.com/thumbnails/" + seed.title + ".jpg",
		ThumbnailKey: "thumbnails/" + seed.title + ".jpg",
		Title:        seed.title,
		Description:  "about " + seed.title,
		Duration:     90,
		Published:    seed.published,
		Views:        seed.views,
		CreatedAt:    seed.createdAt,
		UpdatedAt:    seed.createdAt,
	}
	if err := repo.Create(context.Background(), video); err != nil {
		t.Fatalf("create test video: %v", err)
	}
	return video
}

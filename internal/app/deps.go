package app

import (
	"context"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/config"
	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/handlers"
	"github.com/clipstream/backend/internal/media"
	"github.com/clipstream/backend/internal/middleware"
	"github.com/clipstream/backend/internal/relations"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	comments := repositories.NewPostgresCommentRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)
	playlists := repositories.NewPostgresPlaylistRepository(pool)

	issuer := auth.NewTokenIssuer(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	sessions := auth.NewService(users, issuer)

	blobStore, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	return handlers.Dependencies{
		Users:    users,
		Sessions: sessions,
		Verifier: issuer,

		Videos:  videos,
		History: users,

		Comments: comments,
		Tweets:   tweets,

		Likes:         likes,
		LikeToggler:   relations.NewLikeToggler(likes),
		Subscriptions: subscriptions,
		SubToggler:    relations.NewSubscriptionToggler(subscriptions, users),

		Playlists: playlists,

		Stats:       users,
		OwnerVideos: videos,

		Storage:   blobStore,
		Prober:    media.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout),
		UploadDir: cfg.UploadDir,

		AuthLimiter: middleware.NewAuthRateLimiter(cfg.AuthRateLimit),
		Cookies:     handlers.CookiePolicy{Secure: cfg.IsProduction()},

		DB: pool,
	}, nil
}

package handlers

import "net/http"

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users    UserStore
	Sessions CredentialService
	Verifier TokenVerifier

	Videos  VideoStore
	History WatchRecorder

	Comments CommentStore
	Tweets   TweetStore

	Likes         LikeReader
	LikeToggler   LikeToggleService
	Subscriptions SubscriptionReader
	SubToggler    SubscriptionToggleService

	Playlists PlaylistStore

	Stats       ChannelStatsReader
	OwnerVideos OwnerVideoLister

	Storage   BlobStorage
	Prober    DurationProber
	UploadDir string

	AuthLimiter RateLimiter
	Cookies     CookiePolicy

	DB Pinger
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{DB: deps.DB}
	users := UserHandler{
		Users:     deps.Users,
		Sessions:  deps.Sessions,
		Storage:   deps.Storage,
		Cookies:   deps.Cookies,
		UploadDir: deps.UploadDir,
	}
	videos := VideoHandler{
		Videos:    deps.Videos,
		History:   deps.History,
		Storage:   deps.Storage,
		Prober:    deps.Prober,
		UploadDir: deps.UploadDir,
	}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos}
	tweets := TweetHandler{Tweets: deps.Tweets}
	likes := LikeHandler{Toggler: deps.LikeToggler, Likes: deps.Likes}
	subs := SubscriptionHandler{Toggler: deps.SubToggler, Subscriptions: deps.Subscriptions}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos}
	dashboard := DashboardHandler{Stats: deps.Stats, Videos: deps.OwnerVideos}

	authed := Authenticator{Verifier: deps.Verifier}.Require

	mux.HandleFunc("GET /healthz", health.Health)

	mux.HandleFunc("POST /api/v1/users/register", limitRate(deps.AuthLimiter, "register", users.Register))
	mux.HandleFunc("POST /api/v1/users/login", limitRate(deps.AuthLimiter, "login", users.Login))
	mux.HandleFunc("POST /api/v1/users/refresh-token", users.Refresh)
	mux.HandleFunc("POST /api/v1/users/logout", authed(users.Logout))
	mux.HandleFunc("POST /api/v1/users/change-password", authed(users.ChangePassword))
	mux.HandleFunc("GET /api/v1/users/me", authed(users.Me))
	mux.HandleFunc("PATCH /api/v1/users/me", authed(users.UpdateAccount))
	mux.HandleFunc("PATCH /api/v1/users/avatar", authed(users.UpdateAvatar))
	mux.HandleFunc("PATCH /api/v1/users/cover-image", authed(users.UpdateCover))
	mux.HandleFunc("GET /api/v1/users/c/{username}", authed(users.ChannelProfile))
	mux.HandleFunc("GET /api/v1/users/history", authed(users.WatchHistory))

	mux.HandleFunc("GET /api/v1/videos", authed(videos.List))
	mux.HandleFunc("POST /api/v1/videos", authed(videos.Publish))
	mux.HandleFunc("GET /api/v1/videos/{videoId}", authed(videos.Get))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}", authed(videos.Update))
	mux.HandleFunc("DELETE /api/v1/videos/{videoId}", authed(videos.Delete))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}/toggle-publish", authed(videos.TogglePublish))

	mux.HandleFunc("GET /api/v1/comments/{videoId}", authed(comments.List))
	mux.HandleFunc("POST /api/v1/comments/{videoId}", authed(comments.Create))
	mux.HandleFunc("PATCH /api/v1/comments/c/{commentId}", authed(comments.Update))
	mux.HandleFunc("DELETE /api/v1/comments/c/{commentId}", authed(comments.Delete))

	mux.HandleFunc("POST /api/v1/tweets", authed(tweets.Create))
	mux.HandleFunc("GET /api/v1/tweets/user/{userId}", authed(tweets.ListByUser))
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetId}", authed(tweets.Update))
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetId}", authed(tweets.Delete))

	mux.HandleFunc("POST /api/v1/likes/toggle/v/{videoId}", authed(likes.ToggleVideo))
	mux.HandleFunc("POST /api/v1/likes/toggle/c/{commentId}", authed(likes.ToggleComment))
	mux.HandleFunc("POST /api/v1/likes/toggle/t/{tweetId}", authed(likes.ToggleTweet))
	mux.HandleFunc("GET /api/v1/likes/videos", authed(likes.LikedVideos))

	mux.HandleFunc("POST /api/v1/subscriptions/c/{channelId}", authed(subs.Toggle))
	mux.HandleFunc("GET /api/v1/subscriptions/c/{channelId}", authed(subs.Subscribers))
	mux.HandleFunc("GET /api/v1/subscriptions/u/{subscriberId}", authed(subs.Channels))

	mux.HandleFunc("POST /api/v1/playlists", authed(playlists.Create))
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}", authed(playlists.Get))
	mux.HandleFunc("PATCH /api/v1/playlists/{playlistId}", authed(playlists.Update))
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}", authed(playlists.Delete))
	mux.HandleFunc("GET /api/v1/playlists/user/{userId}", authed(playlists.ListByUser))
	mux.HandleFunc("PATCH /api/v1/playlists/add/{videoId}/{playlistId}", authed(playlists.AddVideo))
	mux.HandleFunc("PATCH /api/v1/playlists/remove/{videoId}/{playlistId}", authed(playlists.RemoveVideo))

	mux.HandleFunc("GET /api/v1/dashboard/stats", authed(dashboard.ChannelStats))
	mux.HandleFunc("GET /api/v1/dashboard/videos", authed(dashboard.ChannelVideos))
}

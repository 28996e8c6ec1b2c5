package models

import "time"

// User represents an account on the ClipStream platform. Password holds the
// bcrypt hash, never the plain text. RefreshToken is the single active
// refresh token for the account; an empty value means no live session.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Password     string
	AvatarURL    string
	CoverURL     string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicProfile is the subset of user fields safe to expose to other accounts.
func (u User) PublicProfile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

// UserProfile is the public projection of a user used in joined views.
type UserProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatar"`
}

// Video is an uploaded clip with its stored media locations. VideoKey and
// ThumbnailKey are the deletable object-store handles for the blobs.
type Video struct {
	ID           string
	OwnerID      string
	VideoURL     string
	VideoKey     string
	ThumbnailURL string
	ThumbnailKey string
	Title        string
	Description  string
	Duration     float64
	Published    bool
	Views        int64
	LikeCount    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VideoWithOwner pairs a video with the public projection of its uploader.
type VideoWithOwner struct {
	Video
	Owner UserProfile
}

// Comment is a remark left on a video. Only the owner may update or delete it.
type Comment struct {
	ID        string
	OwnerID   string
	VideoID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tweet is a short free-standing post attached to an account.
type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LikeTarget identifies the kind of entity a like edge points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like is an edge from a user to exactly one of a video, comment, or tweet.
// At most one edge exists per (liker, target) pair; the database enforces it.
type Like struct {
	ID        string
	LikerID   string
	VideoID   string
	CommentID string
	TweetID   string
	CreatedAt time.Time
}

// Subscription is an edge from a subscriber account to a channel account.
// A user can never subscribe to themselves.
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// Playlist is an ordered, duplicate-free collection of video references.
// (owner, name) is unique.
type Playlist struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	VideoIDs    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChannelStats aggregates read-time metrics for an account's channel.
type ChannelStats struct {
	TotalViews       int64 `json:"totalViews"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalVideos      int64 `json:"totalVideos"`
	TotalLikes       int64 `json:"totalLikes"`
}

// ChannelProfile is the public channel view for a username, including
// subscription counts and whether the requesting viewer is subscribed.
type ChannelProfile struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	AvatarURL        string `json:"avatar"`
	CoverURL         string `json:"coverImage"`
	SubscriberCount  int64  `json:"subscribersCount"`
	SubscribedToNum  int64  `json:"channelsSubscribedToCount"`
	ViewerSubscribed bool   `json:"isSubscribed"`
}

// WatchEntry is a watch-history row resolved to the full video plus owner.
type WatchEntry struct {
	Video     VideoWithOwner
	WatchedAt time.Time
}

// TokenPair groups the bearer credentials issued to authenticated users.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

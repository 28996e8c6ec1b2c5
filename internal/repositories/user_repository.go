package repositories

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

// UserRepository defines the data access contract for accounts, including the
// read-time channel aggregates derived from the subscription graph.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	// FindByIdentifier resolves a user by username or email, whichever matches.
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	Update(ctx context.Context, user models.User) error

	// SetRefreshToken unconditionally replaces the account's stored refresh
	// token. An empty token clears it (logout).
	SetRefreshToken(ctx context.Context, userID, token string) error
	// SwapRefreshToken replaces the stored refresh token only when it still
	// equals old. It reports false when a concurrent rotation won the race.
	SwapRefreshToken(ctx context.Context, userID, old, new string) (bool, error)

	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	ChannelStats(ctx context.Context, userID string) (models.ChannelStats, error)

	// RecordWatch prepends the video to the user's watch history, moving an
	// existing entry to the front instead of duplicating it.
	RecordWatch(ctx context.Context, userID, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error)
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for accounts.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new account record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, cover_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, user.ID, user.Username, user.Email, user.FullName, user.Password, user.AvatarURL, user.CoverURL, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_url, refresh_token, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var (
		user         models.User
		refreshToken sql.NullString
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Password,
		&user.AvatarURL, &user.CoverURL, &refreshToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	if refreshToken.Valid {
		user.RefreshToken = refreshToken.String
	}
	return user, nil
}

// FindByID fetches an account by its identifier.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return scanUser(conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// FindByIdentifier fetches an account matching the username or email.
func (r *PostgresUserRepository) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return scanUser(conn.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE username = $1 OR email = $1
    `, identifier))
}

// Update modifies the mutable profile fields plus the password hash.
func (r *PostgresUserRepository) Update(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET email = $2, full_name = $3, password_hash = $4, avatar_url = $5, cover_url = $6, updated_at = $7
        WHERE id = $1
    `, user.ID, user.Email, user.FullName, user.Password, user.AvatarURL, user.CoverURL, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SetRefreshToken unconditionally replaces the stored refresh token. An empty
// token clears the column, invalidating every outstanding refresh token.
func (r *PostgresUserRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	stored := sql.NullString{String: token, Valid: token != ""}

	tag, err := conn.Exec(ctx, `
        UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1
    `, userID, stored)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SwapRefreshToken rotates the stored refresh token with a compare-and-swap:
// the write only lands when the stored value still equals old. A false return
// means another rotation got there first and the caller's token is stale.
func (r *PostgresUserRepository) SwapRefreshToken(ctx context.Context, userID, old, new string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = $3, updated_at = NOW()
        WHERE id = $1 AND refresh_token = $2
    `, userID, old, new)
	if err != nil {
		return false, fmt.Errorf("swap refresh token: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ChannelProfile computes the public channel view for a username: subscriber
// counts from both sides of the graph and whether the viewer is subscribed.
func (r *PostgresUserRepository) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT u.id, u.username, u.full_name, u.email, u.avatar_url, u.cover_url,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
               (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
               EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id::TEXT = $2)
        FROM users u
        WHERE u.username = $1
    `, username, viewerID)

	var profile models.ChannelProfile
	err = row.Scan(&profile.ID, &profile.Username, &profile.FullName, &profile.Email,
		&profile.AvatarURL, &profile.CoverURL,
		&profile.SubscriberCount, &profile.SubscribedToNum, &profile.ViewerSubscribed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChannelProfile{}, ErrNotFound
		}
		return models.ChannelProfile{}, fmt.Errorf("select channel profile: %w", err)
	}

	return profile, nil
}

// ChannelStats sums views and likes across the account's videos and counts
// videos and subscribers. Total likes reads the denormalized per-video
// counter maintained by the like toggles.
func (r *PostgresUserRepository) ChannelStats(ctx context.Context, userID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT COALESCE(SUM(v.views), 0)::BIGINT,
               COALESCE(SUM(v.like_count), 0)::BIGINT,
               COUNT(v.id),
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = $1)
        FROM videos v
        WHERE v.owner_id = $1
    `, userID)

	var stats models.ChannelStats
	if err := row.Scan(&stats.TotalViews, &stats.TotalLikes, &stats.TotalVideos, &stats.TotalSubscribers); err != nil {
		return models.ChannelStats{}, fmt.Errorf("select channel stats: %w", err)
	}

	return stats, nil
}

// RecordWatch upserts the watch-history entry, moving a rewatched video to
// the front of the history.
func (r *PostgresUserRepository) RecordWatch(ctx context.Context, userID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO watch_history (user_id, video_id, watched_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()
    `, userID, videoID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("record watch: %w", err)
	}

	return nil
}

// WatchHistory resolves the account's history into full videos with their
// owner projections, most recently watched first.
func (r *PostgresUserRepository) WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoWithOwnerColumns+`, wh.watched_at
        FROM watch_history wh
        JOIN videos v ON v.id = wh.video_id
        JOIN users o ON o.id = v.owner_id
        WHERE wh.user_id = $1
        ORDER BY wh.watched_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchEntry
	for rows.Next() {
		var entry models.WatchEntry
		if err := scanVideoWithOwner(rows, &entry.Video, &entry.WatchedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return entries, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)

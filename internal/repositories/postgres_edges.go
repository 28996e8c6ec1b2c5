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

// PostgresLikeRepository provides PostgreSQL-backed persistence for like edges.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

func likeTargetColumn(target models.LikeTarget) (string, error) {
	switch target {
	case models.LikeTargetVideo:
		return "video_id", nil
	case models.LikeTargetComment:
		return "comment_id", nil
	case models.LikeTargetTweet:
		return "tweet_id", nil
	default:
		return "", fmt.Errorf("unknown like target %q", target)
	}
}

// Insert creates the like edge unless it already exists; the partial unique
// indexes make the insert the atomic arbiter of the at-most-one-edge rule.
// Video likes bump the denormalized counter inside the same transaction.
func (r *PostgresLikeRepository) Insert(ctx context.Context, like models.Like) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin like insert: %w", err)
	}
	defer tx.Rollback(ctx)

	nullable := func(v string) sql.NullString {
		return sql.NullString{String: v, Valid: v != ""}
	}

	tag, err := tx.Exec(ctx, `
        INSERT INTO likes (id, liker_id, video_id, comment_id, tweet_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT DO NOTHING
    `, like.ID, like.LikerID, nullable(like.VideoID), nullable(like.CommentID), nullable(like.TweetID), like.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	inserted := tag.RowsAffected() == 1

	if inserted && like.VideoID != "" {
		if _, err := tx.Exec(ctx, `UPDATE videos SET like_count = like_count + 1 WHERE id = $1`, like.VideoID); err != nil {
			return false, fmt.Errorf("increment like count: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit like insert: %w", err)
	}

	return inserted, nil
}

// Delete removes the edge for (liker, target), reporting whether one existed.
// Video unlikes decrement the denormalized counter in the same transaction.
func (r *PostgresLikeRepository) Delete(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (bool, error) {
	column, err := likeTargetColumn(target)
	if err != nil {
		return false, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin like delete: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM likes WHERE liker_id = $1 AND `+column+` = $2`, likerID, targetID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	deleted := tag.RowsAffected() == 1

	if deleted && target == models.LikeTargetVideo {
		if _, err := tx.Exec(ctx, `UPDATE videos SET like_count = like_count - 1 WHERE id = $1 AND like_count > 0`, targetID); err != nil {
			return false, fmt.Errorf("decrement like count: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit like delete: %w", err)
	}

	return deleted, nil
}

// Find fetches the like edge for (liker, target).
func (r *PostgresLikeRepository) Find(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (models.Like, error) {
	column, err := likeTargetColumn(target)
	if err != nil {
		return models.Like{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Like{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, liker_id, video_id, comment_id, tweet_id, created_at
        FROM likes
        WHERE liker_id = $1 AND `+column+` = $2
    `, likerID, targetID)

	return scanLike(row)
}

func scanLike(row pgx.Row) (models.Like, error) {
	var (
		like                        models.Like
		videoID, commentID, tweetID sql.NullString
	)
	if err := row.Scan(&like.ID, &like.LikerID, &videoID, &commentID, &tweetID, &like.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Like{}, ErrNotFound
		}
		return models.Like{}, fmt.Errorf("scan like: %w", err)
	}
	like.VideoID = videoID.String
	like.CommentID = commentID.String
	like.TweetID = tweetID.String
	return like, nil
}

// TargetExists reports whether the liked entity exists in its own table.
func (r *PostgresLikeRepository) TargetExists(ctx context.Context, target models.LikeTarget, targetID string) (bool, error) {
	var table string
	switch target {
	case models.LikeTargetVideo:
		table = "videos"
	case models.LikeTargetComment:
		table = "comments"
	case models.LikeTargetTweet:
		table = "tweets"
	default:
		return false, fmt.Errorf("unknown like target %q", target)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, targetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check like target: %w", err)
	}

	return exists, nil
}

// CountForTarget returns the number of like edges pointing at the target.
func (r *PostgresLikeRepository) CountForTarget(ctx context.Context, target models.LikeTarget, targetID string) (int64, error) {
	column, err := likeTargetColumn(target)
	if err != nil {
		return 0, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE `+column+` = $1`, targetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

// ListLikedVideos returns the videos the account has liked, newest like first.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, likerID string) ([]models.VideoWithOwner, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoWithOwnerColumns+`
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        JOIN users o ON o.id = v.owner_id
        WHERE l.liker_id = $1 AND l.video_id IS NOT NULL
        ORDER BY l.created_at DESC
    `, likerID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	var videos []models.VideoWithOwner
	for rows.Next() {
		var video models.VideoWithOwner
		if err := scanVideoWithOwner(rows, &video); err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return videos, nil
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for
// subscriber→channel edges.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Insert creates the subscription edge unless it already exists.
func (r *PostgresSubscriptionRepository) Insert(ctx context.Context, sub models.Subscription) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (subscriber_id, channel_id) DO NOTHING
    `, sub.ID, sub.SubscriberID, sub.ChannelID, sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("insert subscription: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Delete removes the subscription edge, reporting whether one existed.
func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Find fetches the subscription edge for (subscriber, channel).
func (r *PostgresSubscriptionRepository) Find(ctx context.Context, subscriberID, channelID string) (models.Subscription, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, subscriber_id, channel_id, created_at
        FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID)

	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.SubscriberID, &sub.ChannelID, &sub.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Subscription{}, ErrNotFound
		}
		return models.Subscription{}, fmt.Errorf("select subscription: %w", err)
	}

	return sub, nil
}

func (r *PostgresSubscriptionRepository) listProfiles(ctx context.Context, query, id string) ([]models.UserProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query subscription profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		var profile models.UserProfile
		if err := rows.Scan(&profile.ID, &profile.Username, &profile.FullName, &profile.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan subscription profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription profiles: %w", err)
	}

	return profiles, nil
}

// ListSubscribers returns the accounts subscribed to the channel, newest first.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.UserProfile, error) {
	return r.listProfiles(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
    `, channelID)
}

// ListChannels returns the channels the account is subscribed to, newest first.
func (r *PostgresSubscriptionRepository) ListChannels(ctx context.Context, subscriberID string) ([]models.UserProfile, error) {
	return r.listProfiles(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
    `, subscriberID)
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)

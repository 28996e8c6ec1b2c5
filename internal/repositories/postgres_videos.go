package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/models"
)

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

const videoColumns = `id, owner_id, video_url, video_key, thumbnail_url, thumbnail_key, title, description, duration_seconds, published, views, like_count, created_at, updated_at`

const videoWithOwnerColumns = `v.id, v.owner_id, v.video_url, v.video_key, v.thumbnail_url, v.thumbnail_key, v.title, v.description, v.duration_seconds, v.published, v.views, v.like_count, v.created_at, v.updated_at, o.id, o.username, o.full_name, o.avatar_url`

func scanVideo(row pgx.Row) (models.Video, error) {
	var video models.Video
	err := row.Scan(&video.ID, &video.OwnerID, &video.VideoURL, &video.VideoKey,
		&video.ThumbnailURL, &video.ThumbnailKey, &video.Title, &video.Description,
		&video.Duration, &video.Published, &video.Views, &video.LikeCount,
		&video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("scan video: %w", err)
	}
	return video, nil
}

// scanVideoWithOwner scans the videoWithOwnerColumns projection plus any
// trailing columns the caller appended to the select list.
func scanVideoWithOwner(row pgx.Row, dst *models.VideoWithOwner, extra ...any) error {
	dest := []any{
		&dst.ID, &dst.OwnerID, &dst.VideoURL, &dst.VideoKey,
		&dst.ThumbnailURL, &dst.ThumbnailKey, &dst.Title, &dst.Description,
		&dst.Duration, &dst.Published, &dst.Views, &dst.LikeCount,
		&dst.CreatedAt, &dst.UpdatedAt,
		&dst.Owner.ID, &dst.Owner.Username, &dst.Owner.FullName, &dst.Owner.AvatarURL,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return fmt.Errorf("scan video with owner: %w", err)
	}
	return nil
}

// Create persists a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, video_url, video_key, thumbnail_url, thumbnail_key, title, description, duration_seconds, published, views, like_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `, video.ID, video.OwnerID, video.VideoURL, video.VideoKey, video.ThumbnailURL, video.ThumbnailKey,
		video.Title, video.Description, video.Duration, video.Published, video.Views, video.LikeCount,
		video.CreatedAt, video.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a video by its identifier.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return scanVideo(conn.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
}

// Update modifies the owner-editable fields of a video.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail_url = $4, thumbnail_key = $5, published = $6, updated_at = $7
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.ThumbnailURL, video.ThumbnailKey, video.Published, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video record. Dependent rows (comments, likes, playlist
// membership, watch history) cascade at the schema level.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// sortableVideoColumns whitelists the columns a listing may order by.
var sortableVideoColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration_seconds",
	"title":     "v.title",
}

// List returns one page of videos matching the filter along with the total
// row count for page-metadata computation.
func (r *PostgresVideoRepository) List(ctx context.Context, filter VideoListFilter) ([]models.VideoWithOwner, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	where := `WHERE ($1 = '' OR v.title ILIKE '%' || $1 || '%' OR v.description ILIKE '%' || $1 || '%')
          AND ($2 = '' OR v.owner_id::TEXT = $2)
          AND (NOT $3::BOOLEAN OR v.published)`

	orderBy := "v.created_at"
	if col, ok := sortableVideoColumns[filter.SortBy]; ok {
		orderBy = col
	}
	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	err = conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos v `+where,
		filter.Query, filter.OwnerID, filter.PublishedOnly).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT `+videoWithOwnerColumns+`
        FROM videos v
        JOIN users o ON o.id = v.owner_id
        `+where+`
        ORDER BY `+orderBy+` `+direction+`
        LIMIT $4 OFFSET $5
    `, filter.Query, filter.OwnerID, filter.PublishedOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.VideoWithOwner
	for rows.Next() {
		var video models.VideoWithOwner
		if err := scanVideoWithOwner(rows, &video); err != nil {
			return nil, 0, err
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, total, nil
}

// ListByOwner returns every video owned by the account, newest first.
func (r *PostgresVideoRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+` FROM videos WHERE owner_id = $1 ORDER BY created_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query owner videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owner videos: %w", err)
	}

	return videos, nil
}

// IncrementViews bumps the view counter by one.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)

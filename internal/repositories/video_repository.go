package repositories

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

// VideoListFilter narrows and orders a paginated video listing.
type VideoListFilter struct {
	// Query matches title or description case-insensitively when non-empty.
	Query string
	// OwnerID restricts results to a single uploader when non-empty.
	OwnerID string
	// PublishedOnly hides unpublished videos from the listing.
	PublishedOnly bool
	// SortBy must be one of the whitelisted sortable columns; empty means
	// newest first.
	SortBy        string
	SortAscending bool
	Page          int
	Limit         int
}

// VideoRepository defines persistence for uploaded videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error

	// List returns one page of videos with their owner projections plus the
	// total number of rows matching the filter.
	List(ctx context.Context, filter VideoListFilter) ([]models.VideoWithOwner, int64, error)
	// ListByOwner returns every video owned by the account, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)

	IncrementViews(ctx context.Context, id string) error
}

package handlers

import (
	"context"
	"net/http"

	"github.com/clipstream/backend/internal/models"
)

// ChannelStatsReader aggregates the dashboard numbers for a channel.
type ChannelStatsReader interface {
	ChannelStats(ctx context.Context, userID string) (models.ChannelStats, error)
}

// OwnerVideoLister returns every upload of an account, published or not.
type OwnerVideoLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
}

// DashboardHandler serves the channel owner's dashboard.
type DashboardHandler struct {
	Stats  ChannelStatsReader
	Videos OwnerVideoLister
}

// ChannelStats returns total views, subscribers, videos, and likes for the
// caller's channel.
func (h *DashboardHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	stats, err := h.Stats.ChannelStats(ctx, principal.ID)
	if err != nil {
		respondError(ctx, w, err, "could not load channel stats")
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "channel stats")
}

// ChannelVideos returns every upload of the caller, including unpublished
// ones, newest first.
func (h *DashboardHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	videos, err := h.Videos.ListByOwner(ctx, principal.ID)
	if err != nil {
		respondError(ctx, w, err, "could not list channel videos")
		return
	}

	dtos := make([]videoDTO, 0, len(videos))
	for _, v := range videos {
		dtos = append(dtos, newVideoDTO(v))
	}

	respondData(ctx, w, http.StatusOK, dtos, "channel videos")
}

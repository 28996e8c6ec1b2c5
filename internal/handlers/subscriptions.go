package handlers

import (
	"context"
	"net/http"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/relations"
)

// SubscriptionToggleService flips a subscriber→channel edge atomically.
type SubscriptionToggleService interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (relations.Outcome, models.Subscription, error)
}

// SubscriptionReader lists both sides of the subscription graph.
type SubscriptionReader interface {
	ListSubscribers(ctx context.Context, channelID string) ([]models.UserProfile, error)
	ListChannels(ctx context.Context, subscriberID string) ([]models.UserProfile, error)
}

// SubscriptionHandler serves the subscription toggle and listings.
type SubscriptionHandler struct {
	Toggler       SubscriptionToggleService
	Subscriptions SubscriptionReader
}

// Toggle subscribes the caller to a channel, or unsubscribes if already
// subscribed.
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	channelID, err := requirePathID(r, "channelId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, _, err := h.Toggler.Toggle(ctx, principal.ID, channelID)
	if err != nil {
		respondError(ctx, w, err, "could not toggle subscription")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]any{
		"subscribed": outcome == relations.Added,
	}, "subscription toggled")
}

// Subscribers returns the accounts subscribed to a channel.
func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, err := requirePathID(r, "channelId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	profiles, err := h.Subscriptions.ListSubscribers(ctx, channelID)
	if err != nil {
		respondError(ctx, w, err, "could not list subscribers")
		return
	}

	respondData(ctx, w, http.StatusOK, profiles, "subscribers")
}

// Channels returns the channels a subscriber follows.
func (h *SubscriptionHandler) Channels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriberID, err := requirePathID(r, "subscriberId")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	profiles, err := h.Subscriptions.ListChannels(ctx, subscriberID)
	if err != nil {
		respondError(ctx, w, err, "could not list subscribed channels")
		return
	}

	respondData(ctx, w, http.StatusOK, profiles, "subscribed channels")
}

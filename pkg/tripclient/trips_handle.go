package tripclient

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
)

// TripsHandle caches the caller's itinerary and keeps it in step with the
// server: every successful mutation is followed by a refetch.
//
// Fetches are numbered. A response that comes back after a newer one has
// already been applied is dropped, so a slow request can't overwrite fresher
// data.
type TripsHandle struct {
	client *Client

	mu       sync.Mutex
	data     *response_models.ItineraryResponse
	err      error
	inFlight int
	issued   uint64
	applied  uint64
}

func NewTripsHandle(client *Client) *TripsHandle {
	return &TripsHandle{client: client}
}

// Data returns the last applied itinerary, or nil before the first fetch.
func (h *TripsHandle) Data() *response_models.ItineraryResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.data
}

// Err is the error of the last applied fetch.
func (h *TripsHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *TripsHandle) IsLoading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inFlight > 0
}

func (h *TripsHandle) Refetch(ctx context.Context) error {
	h.mu.Lock()
	h.issued++
	gen := h.issued
	h.inFlight++
	h.mu.Unlock()

	data, err := h.client.Itinerary(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.inFlight--

	if gen < h.applied {
		logrus.WithField("generation", gen).Debug("discarding stale itinerary response")
		return err
	}
	h.applied = gen
	h.err = err
	if err == nil {
		h.data = data
	}
	return err
}

func (h *TripsHandle) Add(ctx context.Context, name string) (*response_models.TripResponse, error) {
	trip, err := h.client.CreateTrip(ctx, name)
	if err != nil {
		return nil, err
	}
	h.refetchAfter(ctx, "add trip")
	return trip, nil
}

func (h *TripsHandle) SaveAttraction(
	ctx context.Context,
	req request_models.SaveAttractionRequest,
) (*response_models.SaveAttractionResponse, error) {

	out, err := h.client.SaveAttraction(ctx, req)
	if err != nil {
		return nil, err
	}
	h.refetchAfter(ctx, "save attraction")
	return out, nil
}

func (h *TripsHandle) RemoveAttraction(ctx context.Context, associationID uint) error {
	if err := h.client.RemoveAttraction(ctx, associationID); err != nil {
		return err
	}
	h.refetchAfter(ctx, "remove attraction")
	return nil
}

func (h *TripsHandle) Delete(ctx context.Context, tripID uint) error {
	if err := h.client.DeleteTrip(ctx, tripID); err != nil {
		return err
	}
	h.refetchAfter(ctx, "delete trip")
	return nil
}

// refetchAfter reports refetch failures through Err; the mutation itself has
// already succeeded.
func (h *TripsHandle) refetchAfter(ctx context.Context, op string) {
	if err := h.Refetch(ctx); err != nil {
		logrus.WithError(err).WithField("op", op).Warn("refetch after mutation failed")
	}
}

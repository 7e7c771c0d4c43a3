package tripclient

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
)

// Item is one tile of the grid. TripID and AssociationID are set only for
// attractions already saved in a trip.
type Item struct {
	response_models.FormattedAttraction
	TripID        uint
	AssociationID uint
}

func ItemFromAttraction(a response_models.FormattedAttraction) Item {
	return Item{FormattedAttraction: a}
}

func ItemFromTripAttraction(a response_models.TripAttraction) Item {
	return Item{FormattedAttraction: a.FormattedAttraction, TripID: a.TripID, AssociationID: a.AssociationID}
}

// TripOption is one entry of the trip picker.
type TripOption struct {
	Kind   string
	TripID uint
	Label  string
}

const NewTripLabel = "Create new trip"

// Grid drives the save-to-trip flow: clicking an unsaved attraction opens the
// trip picker, choosing a trip saves it with a single request.
type Grid struct {
	trips    *TripsHandle
	identity IdentityProvider

	mu        sync.Mutex
	selected  *Item
	modalOpen bool
}

func NewGrid(trips *TripsHandle, identity IdentityProvider) *Grid {
	return &Grid{trips: trips, identity: identity}
}

// Click removes a saved item from its trip, or selects an unsaved one and
// opens the picker.
func (g *Grid) Click(ctx context.Context, item Item) error {
	if item.TripID != 0 {
		return g.trips.RemoveAttraction(ctx, item.AssociationID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = &item
	g.modalOpen = true
	return nil
}

func (g *Grid) ModalOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modalOpen
}

func (g *Grid) Selected() *Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected
}

// Close dismisses the picker without saving.
func (g *Grid) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = nil
	g.modalOpen = false
}

// Options lists the caller's trips followed by the new-trip entry.
func (g *Grid) Options() []TripOption {
	var trips []response_models.TripResponse
	if data := g.trips.Data(); data != nil {
		trips = data.ListOfTrips
	}

	out := make([]TripOption, 0, len(trips)+1)
	for _, t := range trips {
		out = append(out, TripOption{Kind: request_models.TripSelectionExisting, TripID: t.ID, Label: t.TripName})
	}
	return append(out, TripOption{Kind: request_models.TripSelectionNew, Label: NewTripLabel})
}

// Choose saves the selected attraction under the chosen trip. Nothing is sent
// when no attraction is selected or there is no identity. The picker is
// closed and the selection cleared either way.
func (g *Grid) Choose(ctx context.Context, choice request_models.TripSelection) (*response_models.SaveAttractionResponse, error) {
	g.mu.Lock()
	selected := g.selected
	g.selected = nil
	g.modalOpen = false
	g.mu.Unlock()

	if selected == nil {
		logrus.Debug("no attraction selected, skipping save")
		return nil, nil
	}

	who, err := g.identity.Identity(ctx)
	if err != nil {
		return nil, err
	}
	if who.Subject == "" {
		logrus.Debug("no identity, skipping save")
		return nil, nil
	}

	out, err := g.trips.SaveAttraction(ctx, request_models.SaveAttractionRequest{
		AttractionID: selected.ID,
		Trip:         choice,
	})
	if err != nil {
		logrus.WithError(err).WithField("attraction_id", selected.ID).Error("saving attraction to trip failed")
		return nil, err
	}
	return out, nil
}

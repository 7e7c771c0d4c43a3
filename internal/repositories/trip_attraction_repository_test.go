package repositories

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
	dbm "tripbuddy/internal/models/db_models"
	"tripbuddy/internal/testutil"
)

func TestAttachDetach(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	trips := NewTripRepository(db, NewAccountRepository(db))
	links := NewTripAttractionRepository(db)

	attractions := testutil.SeedAttractions(t, db,
		dbm.Attraction{Name: "Sagrada Familia", UserRating: 4.8},
		dbm.Attraction{Name: "Park Guell", UserRating: 4.5},
	)
	trip, err := trips.AddTrip(ctx, &dbm.Trip{TripName: "Barcelona", Auth0ID: "alice"})
	if err != nil {
		t.Fatalf("AddTrip: %v", err)
	}

	first, err := links.Attach(ctx, trip.ID, attractions[0].ID)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if first.Attraction.Name != "Sagrada Familia" {
		t.Fatalf("attraction not preloaded: %+v", first)
	}
	if _, err := links.Attach(ctx, trip.ID, attractions[1].ID); err != nil {
		t.Fatalf("Attach second: %v", err)
	}

	if _, err := links.Attach(ctx, trip.ID, attractions[0].ID); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate Attach error = %v; want gorm.ErrDuplicatedKey", err)
	}

	exists, err := links.Exists(ctx, trip.ID, attractions[0].ID)
	if err != nil || !exists {
		t.Fatalf("Exists = %v, %v; want true", exists, err)
	}

	listed, err := links.ListByTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListByTrip returned %d links; want 2", len(listed))
	}

	affected, err := links.Detach(ctx, first.ID)
	if err != nil || affected != 1 {
		t.Fatalf("Detach = %d, %v; want 1", affected, err)
	}
	if got, _ := links.GetById(ctx, first.ID); got != nil {
		t.Fatalf("link still present after Detach: %+v", got)
	}

	var attraction dbm.Attraction
	if err := db.First(&attraction, attractions[0].ID).Error; err != nil {
		t.Fatalf("attraction removed with its link: %v", err)
	}

	affected, err = links.Detach(ctx, first.ID)
	if err != nil || affected != 0 {
		t.Fatalf("second Detach = %d, %v; want 0", affected, err)
	}
}

func TestListByTripIdsEmpty(t *testing.T) {
	links := NewTripAttractionRepository(testutil.NewDB(t))

	got, err := links.ListByTripIds(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListByTripIds: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d links; want 0", len(got))
	}
}

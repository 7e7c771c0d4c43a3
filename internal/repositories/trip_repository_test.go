package repositories

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
	dbm "tripbuddy/internal/models/db_models"
	"tripbuddy/internal/testutil"
)

func newTripRepo(t *testing.T) (TripRepository, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewTripRepository(db, NewAccountRepository(db)), db
}

func TestAddTripRecordsMembership(t *testing.T) {
	repo, db := newTripRepo(t)
	ctx := context.Background()

	trip, err := repo.AddTrip(ctx, &dbm.Trip{TripName: "Summer 2025", Auth0ID: "abc123"})
	if err != nil {
		t.Fatalf("AddTrip: %v", err)
	}
	if trip.ID == 0 {
		t.Fatal("expected trip id to be assigned")
	}

	account, err := NewAccountRepository(db).GetByAuth0Id(ctx, "abc123")
	if err != nil || account == nil {
		t.Fatalf("account not created: %v", err)
	}

	byUser, err := repo.GetTripsByUserId(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetTripsByUserId: %v", err)
	}
	if len(byUser) != 1 || byUser[0].ID != trip.ID {
		t.Fatalf("GetTripsByUserId = %+v; want trip %d", byUser, trip.ID)
	}
}

func TestGetTripsByAuth0Id(t *testing.T) {
	repo, _ := newTripRepo(t)
	ctx := context.Background()

	for _, tr := range []dbm.Trip{
		{TripName: "Kyoto", Auth0ID: "alice"},
		{TripName: "Lisbon", Auth0ID: "bob"},
		{TripName: "Oslo", Auth0ID: "alice"},
	} {
		tr := tr
		if _, err := repo.AddTrip(ctx, &tr); err != nil {
			t.Fatalf("AddTrip(%s): %v", tr.TripName, err)
		}
	}

	tests := []struct {
		name     string
		auth0ID  string
		expected []string
	}{
		{name: "two trips", auth0ID: "alice", expected: []string{"Kyoto", "Oslo"}},
		{name: "one trip", auth0ID: "bob", expected: []string{"Lisbon"}},
		{name: "unknown identity", auth0ID: "carol", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trips, err := repo.GetTripsByAuth0Id(ctx, tt.auth0ID)
			if err != nil {
				t.Fatalf("GetTripsByAuth0Id: %v", err)
			}
			if len(trips) != len(tt.expected) {
				t.Fatalf("got %d trips; want %d", len(trips), len(tt.expected))
			}
			for i, name := range tt.expected {
				if trips[i].TripName != name {
					t.Errorf("trips[%d] = %q; want %q", i, trips[i].TripName, name)
				}
			}
		})
	}
}

func TestGetTripByIdMissing(t *testing.T) {
	repo, _ := newTripRepo(t)

	trip, err := repo.GetTripById(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetTripById: %v", err)
	}
	if trip != nil {
		t.Fatalf("expected nil trip, got %+v", trip)
	}
}

func TestUpdateTripById(t *testing.T) {
	repo, _ := newTripRepo(t)
	ctx := context.Background()

	trip, err := repo.AddTrip(ctx, &dbm.Trip{TripName: "Draft", Auth0ID: "alice"})
	if err != nil {
		t.Fatalf("AddTrip: %v", err)
	}

	updated, err := repo.UpdateTripById(ctx, trip.ID, "", map[string]interface{}{"trip_name": "Final"})
	if err != nil {
		t.Fatalf("UpdateTripById: %v", err)
	}
	if updated.TripName != "Final" || updated.Auth0ID != "alice" {
		t.Fatalf("got %+v; want name Final owned by alice", updated)
	}

	moved, err := repo.UpdateTripById(ctx, trip.ID, "", map[string]interface{}{"auth0_id": "bob"})
	if err != nil {
		t.Fatalf("UpdateTripById owner: %v", err)
	}
	if moved.Auth0ID != "bob" {
		t.Fatalf("owner = %q; want bob", moved.Auth0ID)
	}

	aliceTrips, _ := repo.GetTripsByAuth0Id(ctx, "alice")
	bobTrips, _ := repo.GetTripsByAuth0Id(ctx, "bob")
	if len(aliceTrips) != 0 || len(bobTrips) != 1 {
		t.Fatalf("membership not moved: alice=%d bob=%d", len(aliceTrips), len(bobTrips))
	}

	missing, err := repo.UpdateTripById(ctx, 999, "", map[string]interface{}{"trip_name": "x"})
	if err != nil {
		t.Fatalf("UpdateTripById missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing trip, got %+v", missing)
	}
}

func TestDeleteTripByIdKeepsAttractions(t *testing.T) {
	repo, db := newTripRepo(t)
	ctx := context.Background()

	attractions := testutil.SeedAttractions(t, db, dbm.Attraction{Name: "Louvre", UserRating: 4.7})

	trip, link, err := repo.CreateTripWithAttraction(ctx, &dbm.Trip{TripName: "Paris", Auth0ID: "alice"}, attractions[0].ID)
	if err != nil {
		t.Fatalf("CreateTripWithAttraction: %v", err)
	}
	if link.Attraction.Name != "Louvre" {
		t.Fatalf("association not preloaded: %+v", link)
	}

	affected, err := repo.DeleteTripById(ctx, trip.ID, "")
	if err != nil {
		t.Fatalf("DeleteTripById: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d; want 1", affected)
	}

	if got, _ := repo.GetTripById(ctx, trip.ID); got != nil {
		t.Fatalf("trip still visible after delete: %+v", got)
	}

	var links int64
	db.Model(&dbm.TripAttraction{}).Where("trip_id = ?", trip.ID).Count(&links)
	if links != 0 {
		t.Fatalf("links left behind: %d", links)
	}

	var kept int64
	db.Model(&dbm.Attraction{}).Count(&kept)
	if kept != 1 {
		t.Fatalf("attraction count = %d; want 1", kept)
	}

	again, err := repo.DeleteTripById(ctx, trip.ID, "")
	if err != nil {
		t.Fatalf("second DeleteTripById: %v", err)
	}
	if again != 0 {
		t.Fatalf("second delete affected %d rows; want 0", again)
	}
}

func TestCreateTripWithAttractionRollsBack(t *testing.T) {
	repo, db := newTripRepo(t)
	ctx := context.Background()

	attractions := testutil.SeedAttractions(t, db, dbm.Attraction{Name: "Colosseum"})

	err := db.Callback().Create().Before("gorm:create").Register("test:fail_links", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "trip_attractions" {
			_ = tx.AddError(errors.New("link insert failed"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if _, _, err := repo.CreateTripWithAttraction(ctx, &dbm.Trip{TripName: "Rome", Auth0ID: "alice"}, attractions[0].ID); err == nil {
		t.Fatal("expected CreateTripWithAttraction to fail")
	}

	var trips int64
	db.Model(&dbm.Trip{}).Count(&trips)
	if trips != 0 {
		t.Fatalf("trip count after rollback = %d; want 0", trips)
	}

	var memberships int64
	db.Model(&dbm.UserTrip{}).Count(&memberships)
	if memberships != 0 {
		t.Fatalf("membership count after rollback = %d; want 0", memberships)
	}
}

func TestOwnerScopedWrites(t *testing.T) {
	repo, _ := newTripRepo(t)
	ctx := context.Background()

	trip, err := repo.AddTrip(ctx, &dbm.Trip{TripName: "Lisbon", Auth0ID: "alice"})
	if err != nil {
		t.Fatalf("AddTrip: %v", err)
	}

	tests := []struct {
		name    string
		updates map[string]interface{}
	}{
		{name: "rename", updates: map[string]interface{}{"trip_name": "Porto"}},
		{name: "take over", updates: map[string]interface{}{"auth0_id": "mallory"}},
		{name: "empty", updates: map[string]interface{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.UpdateTripById(ctx, trip.ID, "bob", tt.updates); !errors.Is(err, ErrTripNotOwned) {
				t.Fatalf("UpdateTripById error = %v; want ErrTripNotOwned", err)
			}
		})
	}

	if _, err := repo.DeleteTripById(ctx, trip.ID, "bob"); !errors.Is(err, ErrTripNotOwned) {
		t.Fatalf("DeleteTripById error = %v; want ErrTripNotOwned", err)
	}

	got, err := repo.GetTripById(ctx, trip.ID)
	if err != nil || got == nil {
		t.Fatalf("GetTripById = %+v, %v", got, err)
	}
	if got.TripName != "Lisbon" || got.Auth0ID != "alice" {
		t.Fatalf("trip changed by non-owner: %+v", got)
	}

	// A missing trip stays "not found" for any owner.
	if missing, err := repo.UpdateTripById(ctx, 999, "bob", map[string]interface{}{"trip_name": "x"}); err != nil || missing != nil {
		t.Fatalf("UpdateTripById missing = %+v, %v; want nil, nil", missing, err)
	}
	if n, err := repo.DeleteTripById(ctx, 999, "bob"); err != nil || n != 0 {
		t.Fatalf("DeleteTripById missing = %d, %v; want 0, nil", n, err)
	}

	renamed, err := repo.UpdateTripById(ctx, trip.ID, "alice", map[string]interface{}{"trip_name": "Porto"})
	if err != nil {
		t.Fatalf("owner UpdateTripById: %v", err)
	}
	if renamed.TripName != "Porto" {
		t.Fatalf("owner rename = %+v", renamed)
	}

	if n, err := repo.DeleteTripById(ctx, trip.ID, "alice"); err != nil || n != 1 {
		t.Fatalf("owner DeleteTripById = %d, %v; want 1, nil", n, err)
	}
}

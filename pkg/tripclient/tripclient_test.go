package tripclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
)

// fakeServer records every request and serves a tiny in-memory trip store.
type fakeServer struct {
	mu       sync.Mutex
	requests []string
	saves    []request_models.SaveAttractionRequest
	trips    []response_models.TripResponse
	links    map[uint][]response_models.TripAttraction
	nextID   uint
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	f := &fakeServer{links: map[uint][]response_models.TripAttraction{}, nextID: 1}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/itineraries", f.itinerary)
	mux.HandleFunc("/api/v1/itineraries/attractions", f.save)
	mux.HandleFunc("/api/v1/itineraries/attractions/", f.remove)
	mux.HandleFunc("/api/v1/trips/", f.trip)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeServer) itinerary(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := response_models.ItineraryResponse{ListOfTrips: f.trips}
	for _, t := range f.trips {
		out.Trips = append(out.Trips, response_models.TripWithAttractions{Trip: t, Attractions: f.links[t.ID]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeServer) save(w http.ResponseWriter, r *http.Request) {
	var req request_models.SaveAttractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, req)

	var trip response_models.TripResponse
	switch req.Trip.Kind {
	case request_models.TripSelectionNew:
		trip = response_models.TripResponse{ID: f.nextID, TripName: req.Trip.TripName, Auth0ID: r.URL.Query().Get("auth0Id")}
		f.nextID++
		f.trips = append(f.trips, trip)
	case request_models.TripSelectionExisting:
		for _, t := range f.trips {
			if t.ID == req.Trip.TripID {
				trip = t
			}
		}
		if trip.ID == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Trip not found", "trace_id": "t-1"})
			return
		}
	}

	link := response_models.TripAttraction{
		FormattedAttraction: response_models.FormattedAttraction{ID: req.AttractionID, Name: "attraction"},
		TripID:              trip.ID,
		AssociationID:       uint(100 + len(f.saves)),
	}
	f.links[trip.ID] = append(f.links[trip.ID], link)
	writeJSON(w, http.StatusCreated, response_models.SaveAttractionResponse{Trip: trip, Association: link})
}

func (f *fakeServer) remove(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response_models.MessageResponse{Message: "removed"})
}

func (f *fakeServer) trip(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimPrefix(r.URL.Path, "/api/v1/trips/") {
	case "1":
		writeJSON(w, http.StatusOK, response_models.TripResponse{ID: 1, TripName: "Summer 2025", Auth0ID: "abc123"})
	case "403":
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
	default:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}
}

func (f *fakeServer) savedRequests() []request_models.SaveAttractionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request_models.SaveAttractionRequest(nil), f.saves...)
}

func (f *fakeServer) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func TestClientErrors(t *testing.T) {
	_, srv := newFakeServer(t)
	client := NewClient(srv.URL+"/api/v1", StaticIdentity{Subject: "abc123"})
	ctx := context.Background()

	trip, err := client.GetTrip(ctx, 1)
	if err != nil || trip.TripName != "Summer 2025" {
		t.Fatalf("GetTrip = %+v, %v", trip, err)
	}

	tests := []struct {
		name    string
		id      uint
		wantErr error
		status  int
	}{
		{name: "null body", id: 2, wantErr: ErrNotFound},
		{name: "forbidden", id: 403, wantErr: ErrForbidden, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetTrip(ctx, tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetTrip error = %v; want %v", err, tt.wantErr)
			}
			if tt.status != 0 {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != tt.status {
					t.Fatalf("error = %#v; want *APIError with status %d", err, tt.status)
				}
			}
		})
	}
}

func TestGridChooseNewTrip(t *testing.T) {
	fake, srv := newFakeServer(t)
	identity := StaticIdentity{Subject: "abc123"}
	handle := NewTripsHandle(NewClient(srv.URL+"/api/v1", identity))
	grid := NewGrid(handle, identity)
	ctx := context.Background()

	if err := grid.Click(ctx, ItemFromAttraction(response_models.FormattedAttraction{ID: 7, Name: "Alcatraz"})); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if !grid.ModalOpen() || grid.Selected().ID != 7 {
		t.Fatal("expected picker open with attraction 7 selected")
	}

	options := grid.Options()
	last := options[len(options)-1]
	if last.Kind != request_models.TripSelectionNew || last.Label != NewTripLabel {
		t.Fatalf("last option = %+v; want the new-trip entry", last)
	}

	out, err := grid.Choose(ctx, request_models.TripSelection{Kind: last.Kind, TripName: "Road Trip"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}

	saves := fake.savedRequests()
	if len(saves) != 1 {
		t.Fatalf("save calls = %d; want exactly 1", len(saves))
	}
	if got := saves[0]; got.AttractionID != 7 || got.Trip.Kind != request_models.TripSelectionNew || got.Trip.TripName != "Road Trip" {
		t.Fatalf("save request = %+v", got)
	}
	if fake.count("POST /api/v1/trips") != 0 {
		t.Fatal("new trip must be created by the save call, not a separate POST /trips")
	}
	if out.Association.TripID != out.Trip.ID {
		t.Fatalf("association trip %d != new trip %d", out.Association.TripID, out.Trip.ID)
	}

	if grid.ModalOpen() || grid.Selected() != nil {
		t.Fatal("picker should be closed and selection cleared")
	}

	data := handle.Data()
	if data == nil || len(data.ListOfTrips) != 1 || data.ListOfTrips[0].TripName != "Road Trip" {
		t.Fatalf("handle not refreshed after save: %+v", data)
	}
	if opts := grid.Options(); len(opts) != 2 || opts[0].TripID != out.Trip.ID {
		t.Fatalf("options after save = %+v", opts)
	}
}

func TestGridChooseGuards(t *testing.T) {
	fake, srv := newFakeServer(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		identity StaticIdentity
		click    bool
	}{
		{name: "nothing selected", identity: StaticIdentity{Subject: "abc123"}},
		{name: "no identity", identity: StaticIdentity{}, click: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := NewGrid(NewTripsHandle(NewClient(srv.URL+"/api/v1", tt.identity)), tt.identity)
			if tt.click {
				_ = grid.Click(ctx, ItemFromAttraction(response_models.FormattedAttraction{ID: 3}))
			}

			out, err := grid.Choose(ctx, request_models.TripSelection{Kind: request_models.TripSelectionNew, TripName: "x"})
			if err != nil || out != nil {
				t.Fatalf("Choose = %+v, %v; want skipped", out, err)
			}
			if grid.ModalOpen() {
				t.Fatal("picker should be closed")
			}
		})
	}

	if n := len(fake.savedRequests()); n != 0 {
		t.Fatalf("save calls = %d; want 0", n)
	}
}

func TestGridChooseErrorClosesModal(t *testing.T) {
	fake, srv := newFakeServer(t)
	identity := StaticIdentity{Subject: "abc123"}
	grid := NewGrid(NewTripsHandle(NewClient(srv.URL+"/api/v1", identity)), identity)
	ctx := context.Background()

	_ = grid.Click(ctx, ItemFromAttraction(response_models.FormattedAttraction{ID: 3}))
	_, err := grid.Choose(ctx, request_models.TripSelection{Kind: request_models.TripSelectionExisting, TripID: 99})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Choose error = %v; want ErrNotFound", err)
	}
	if grid.ModalOpen() {
		t.Fatal("picker should close after a failed save")
	}
	if fake.count("GET /api/v1/itineraries") != 0 {
		t.Fatal("failed save must not refetch")
	}
}

func TestGridClickSavedItemRemoves(t *testing.T) {
	fake, srv := newFakeServer(t)
	identity := StaticIdentity{Subject: "abc123"}
	grid := NewGrid(NewTripsHandle(NewClient(srv.URL+"/api/v1", identity)), identity)

	item := ItemFromTripAttraction(response_models.TripAttraction{
		FormattedAttraction: response_models.FormattedAttraction{ID: 5},
		TripID:              1,
		AssociationID:       42,
	})
	if err := grid.Click(context.Background(), item); err != nil {
		t.Fatalf("Click: %v", err)
	}

	if fake.count("DELETE /api/v1/itineraries/attractions/42") != 1 {
		t.Fatal("expected one delete keyed by association id 42")
	}
	if fake.count("GET /api/v1/itineraries") != 1 {
		t.Fatal("remove should refetch the itinerary")
	}
	if grid.ModalOpen() {
		t.Fatal("removing must not open the picker")
	}
}

func TestTripsHandleDropsStaleResponse(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		name := "fresh"
		if n == 1 {
			close(arrived)
			<-release
			name = "stale"
		}
		writeJSON(w, http.StatusOK, response_models.ItineraryResponse{
			ListOfTrips: []response_models.TripResponse{{ID: 1, TripName: name}},
		})
	}))
	defer srv.Close()

	handle := NewTripsHandle(NewClient(srv.URL, StaticIdentity{Subject: "abc123"}))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- handle.Refetch(ctx) }()
	<-arrived

	if err := handle.Refetch(ctx); err != nil {
		t.Fatalf("second Refetch: %v", err)
	}
	if !handle.IsLoading() {
		t.Fatal("first fetch is still in flight")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Refetch: %v", err)
	}

	if handle.IsLoading() {
		t.Fatal("no fetch should be in flight")
	}
	if got := handle.Data().ListOfTrips[0].TripName; got != "fresh" {
		t.Fatalf("data = %q; want fresh", got)
	}
}

func TestExplorer(t *testing.T) {
	var mu sync.Mutex
	var paths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path+"?"+r.URL.Query().Get("q"))
		mu.Unlock()

		name := "random"
		if r.URL.Path == "/attractions/search" {
			name = "match:" + r.URL.Query().Get("q")
		}
		writeJSON(w, http.StatusOK, []response_models.FormattedAttraction{{ID: 1, Name: name}})
	}))
	defer srv.Close()

	explorer := NewExplorer(NewClient(srv.URL, nil))
	ctx := context.Background()

	tests := []struct {
		term     string
		expected string
	}{
		{term: "", expected: "random"},
		{term: "  tower ", expected: "match:tower"},
		{term: "", expected: "random"},
	}

	for _, tt := range tests {
		explorer.SetTerm(tt.term)
		got, err := explorer.Load(ctx)
		if err != nil {
			t.Fatalf("Load(%q): %v", tt.term, err)
		}
		if len(got) != 1 || got[0].Name != tt.expected {
			t.Fatalf("Load(%q) = %+v; want %s", tt.term, got, tt.expected)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 3 || paths[0] != "/attractions/random-activities?" {
		t.Fatalf("paths = %v", paths)
	}
}

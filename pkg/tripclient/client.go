// Package tripclient is a Go client for the trip service together with the
// stateful pieces a front end needs on top of it: a refetching trips handle,
// the attraction explorer and the grid/modal flow that saves attractions
// into trips.
package tripclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
)

// Identity is who the client acts for. Token, when set, is sent as a bearer
// token; Subject is sent as auth0Id for servers running without verification.
type Identity struct {
	Subject string
	Token   string
}

type IdentityProvider interface {
	Identity(ctx context.Context) (Identity, error)
}

// StaticIdentity always returns the same identity.
type StaticIdentity Identity

func (s StaticIdentity) Identity(context.Context) (Identity, error) {
	return Identity(s), nil
}

type Client struct {
	HTTP     *http.Client
	BaseURL  string
	identity IdentityProvider
}

// NewClient targets baseURL, e.g. "http://localhost:8080/api/v1".
func NewClient(baseURL string, identity IdentityProvider) *Client {
	if identity == nil {
		identity = StaticIdentity{}
	}
	return &Client{
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		identity: identity,
	}
}

func (c *Client) Identity(ctx context.Context) (Identity, error) {
	return c.identity.Identity(ctx)
}

// ---- trips ----

func (c *Client) ListTrips(ctx context.Context) ([]response_models.TripResponse, error) {
	var out []response_models.TripResponse
	err := c.do(ctx, http.MethodGet, "/trips", nil, nil, &out)
	return out, err
}

// ListMyTrips lists the trips owned by the current identity.
func (c *Client) ListMyTrips(ctx context.Context) ([]response_models.TripResponse, error) {
	var out []response_models.TripResponse
	err := c.do(ctx, http.MethodGet, "/trips/auth0id", nil, nil, &out)
	return out, err
}

// GetTrip returns ErrNotFound when the server answers with a null body.
func (c *Client) GetTrip(ctx context.Context, id uint) (*response_models.TripResponse, error) {
	var out *response_models.TripResponse
	if err := c.do(ctx, http.MethodGet, "/trips/"+idPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (c *Client) CreateTrip(ctx context.Context, name string) (*response_models.TripResponse, error) {
	who, err := c.identity.Identity(ctx)
	if err != nil {
		return nil, err
	}

	var out response_models.TripResponse
	body := request_models.CreateTripRequest{TripName: name, Auth0ID: who.Subject}
	if err := c.do(ctx, http.MethodPost, "/trips", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTrip(ctx context.Context, id uint, req request_models.UpdateTripRequest) error {
	return c.do(ctx, http.MethodPut, "/trips/"+idPath(id), nil, req, nil)
}

func (c *Client) DeleteTrip(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/trips/"+idPath(id), nil, nil, nil)
}

func (c *Client) TripAttractions(ctx context.Context, tripID uint) ([]response_models.TripAttraction, error) {
	var out []response_models.TripAttraction
	err := c.do(ctx, http.MethodGet, "/trips/"+idPath(tripID)+"/attractions", nil, nil, &out)
	return out, err
}

// ---- itinerary ----

func (c *Client) Itinerary(ctx context.Context) (*response_models.ItineraryResponse, error) {
	var out response_models.ItineraryResponse
	if err := c.do(ctx, http.MethodGet, "/itineraries", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveAttraction(ctx context.Context, req request_models.SaveAttractionRequest) (*response_models.SaveAttractionResponse, error) {
	var out response_models.SaveAttractionResponse
	if err := c.do(ctx, http.MethodPost, "/itineraries/attractions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveAttraction takes the association id, not the attraction id.
func (c *Client) RemoveAttraction(ctx context.Context, associationID uint) error {
	return c.do(ctx, http.MethodDelete, "/itineraries/attractions/"+idPath(associationID), nil, nil, nil)
}

// ---- attractions ----

func (c *Client) RandomAttractions(ctx context.Context, count int) ([]response_models.FormattedAttraction, error) {
	q := url.Values{}
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}

	var out []response_models.FormattedAttraction
	err := c.do(ctx, http.MethodGet, "/attractions/random-activities", q, nil, &out)
	return out, err
}

func (c *Client) SearchAttractions(ctx context.Context, query request_models.SearchAttractionsQuery) ([]response_models.FormattedAttraction, error) {
	q := url.Values{}
	q.Set("q", query.Term)
	if query.MinRating > 0 {
		q.Set("minRating", strconv.FormatFloat(query.MinRating, 'f', -1, 64))
	}
	if query.Page > 0 {
		q.Set("page", strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(query.PageSize))
	}

	var out []response_models.FormattedAttraction
	err := c.do(ctx, http.MethodGet, "/attractions/search", q, nil, &out)
	return out, err
}

func (c *Client) GetAttraction(ctx context.Context, id uint) (*response_models.FormattedAttraction, error) {
	var out response_models.FormattedAttraction
	if err := c.do(ctx, http.MethodGet, "/attractions/"+idPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAttraction(ctx context.Context, req request_models.CreateAttractionRequest) (*response_models.FormattedAttraction, error) {
	var out response_models.FormattedAttraction
	if err := c.do(ctx, http.MethodPost, "/attractions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out interface{}) error {
	who, err := c.identity.Identity(ctx)
	if err != nil {
		return fmt.Errorf("tripclient identity: %w", err)
	}

	if q == nil {
		q = url.Values{}
	}
	if who.Subject != "" {
		q.Set("auth0Id", who.Subject)
	}

	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("tripclient encode: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if who.Token != "" {
		req.Header.Set("Authorization", "Bearer "+who.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("tripclient http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		var payload struct {
			Error   string `json:"error"`
			TraceID string `json:"trace_id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.TraceID = payload.TraceID
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tripclient decode: %w", err)
	}
	return nil
}

func idPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

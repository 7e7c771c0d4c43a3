package request_models

type CreateTripRequest struct {
	TripName string `json:"trip_name" binding:"required,max=255"`
	Auth0ID  string `json:"auth0Id"`
}

// UpdateTripRequest is a partial update; nil fields are left untouched.
type UpdateTripRequest struct {
	TripName *string `json:"trip_name" binding:"omitempty,min=1,max=255"`
	Auth0ID  *string `json:"auth0Id" binding:"omitempty,min=1,max=255"`
}

const (
	TripSelectionExisting = "existing"
	TripSelectionNew      = "new"
)

// TripSelection picks the trip an attraction is saved under: an existing trip
// by id, or a new trip created with the given name.
type TripSelection struct {
	Kind     string `json:"kind" binding:"required,oneof=existing new"`
	TripID   uint   `json:"trip_id,omitempty"`
	TripName string `json:"trip_name,omitempty" binding:"max=255"`
}

type SaveAttractionRequest struct {
	AttractionID uint          `json:"attraction_id" binding:"required"`
	Trip         TripSelection `json:"trip" binding:"required"`
}

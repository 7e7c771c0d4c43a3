package response_models

type TripResponse struct {
	ID       uint   `json:"id"`
	TripName string `json:"trip_name"`
	Auth0ID  string `json:"auth0Id"`
}

// TripAttraction is an attraction as saved under a trip. AssociationID is
// the handle used to remove it from that trip.
type TripAttraction struct {
	FormattedAttraction
	TripID        uint `json:"trip_id"`
	AssociationID uint `json:"association_id"`
}

type TripWithAttractions struct {
	Trip        TripResponse     `json:"trip"`
	Attractions []TripAttraction `json:"attractions"`
}

type ItineraryResponse struct {
	ListOfTrips []TripResponse        `json:"listOfTrips"`
	Trips       []TripWithAttractions `json:"trips"`
}

type SaveAttractionResponse struct {
	Trip        TripResponse   `json:"trip"`
	Association TripAttraction `json:"association"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

package response_models

type FormattedAttraction struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	ImageURL   string  `json:"imageUrl"`
	UserRating float64 `json:"userRating"`
}

package db_models

// Attraction is immutable reference data; trips only point at it.
type Attraction struct {
	BaseModel
	Name       string  `gorm:"not null"`
	ImageURL   string  `gorm:"column:image_url"`
	UserRating float64 `gorm:"column:user_rating"`
}

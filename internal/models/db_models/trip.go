package db_models

type Trip struct {
	BaseModel
	TripName string `gorm:"column:trip_name;not null"`
	Auth0ID  string `gorm:"column:auth0_id;size:255;index"`
}

// UserTrip is a row of the users_trips membership table.
type UserTrip struct {
	UserID uint `gorm:"primaryKey"`
	TripID uint `gorm:"primaryKey"`
}

func (UserTrip) TableName() string { return "users_trips" }

// TripAttraction links one trip to one attraction. Rows are hard deleted;
// removing one never touches the attraction itself.
type TripAttraction struct {
	ID           uint  `gorm:"primaryKey"`
	TripID       uint  `gorm:"not null;uniqueIndex:idx_trip_attraction"`
	AttractionID uint  `gorm:"not null;uniqueIndex:idx_trip_attraction"`
	CreatedAt    int64 `gorm:"autoCreateTime"`

	Attraction Attraction
}

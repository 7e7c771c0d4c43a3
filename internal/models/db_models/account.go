package db_models

// Account is the local record of an external (Auth0) identity.
type Account struct {
	BaseModel
	Auth0ID string `gorm:"size:255;uniqueIndex;not null"`
	Name    string
	Email   string
}

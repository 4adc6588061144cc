package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DogGender string

const (
	GenderMale   DogGender = "male"
	GenderFemale DogGender = "female"
)

// MaxDogImages is the total image count per listing: one primary plus four
// additional uploads.
const MaxDogImages = 5

type Dog struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Slug        string          `gorm:"uniqueIndex;size:150;not null" json:"slug"`
	Breed       string          `gorm:"size:100;not null" json:"breed"`
	Gender      DogGender       `gorm:"type:VARCHAR(10)" json:"gender"`
	AgeMonths   int             `json:"age_months"`
	Behaviour   string          `gorm:"size:200" json:"behaviour"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"` // adoption fee
	ListerID    uint            `gorm:"index;not null" json:"lister_id"`
	Lister      User            `gorm:"foreignKey:ListerID" json:"-"`
	Location    string          `gorm:"size:100" json:"location"`
	Image       string          `json:"image"`
	IsApproved  bool            `json:"is_approved"`
	IsAdopted   bool            `json:"is_adopted"`
	Images      []DogImage      `gorm:"foreignKey:DogID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type DogImage struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	DogID uint   `gorm:"index" json:"dog_id"`
	Image string `gorm:"not null" json:"image"`
}

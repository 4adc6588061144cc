package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// MaxAddressesPerUser caps the address book size.
const MaxAddressesPerUser = 3

var ErrAddressLimit = errors.New("maximum 3 addresses allowed per user")

type Address struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"-"`
	Label       string `gorm:"size:50" json:"label"` // e.g. Home, Office, Other
	AddressLine string `gorm:"not null" json:"address_line"`
	City        string `gorm:"size:100;not null" json:"city"`
	PostalCode  string `gorm:"size:20" json:"postal_code"`
	Phone       string `gorm:"size:20;not null" json:"phone"`
	IsDefault   bool   `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateAddress enforces the 3-address cap, makes the first address the
// default, and keeps at most one default per user.
func CreateAddress(db *gorm.DB, addr *Address) error {
	var count int64
	if err := db.Model(&Address{}).Where("user_id = ?", addr.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count >= MaxAddressesPerUser {
		return ErrAddressLimit
	}
	if count == 0 {
		addr.IsDefault = true
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if addr.IsDefault {
			if err := tx.Model(&Address{}).
				Where("user_id = ? AND is_default = ?", addr.UserID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(addr).Error
	})
}

// SetDefaultAddress marks one address as default and unsets the others.
func SetDefaultAddress(db *gorm.DB, userID, addressID uint) error {
	var addr Address
	if err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&addr).Error; err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Address{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&addr).Update("is_default", true).Error
	})
}

// DeleteAddress removes an address. When the default goes away the most
// recent remaining address is promoted, so there is always exactly one
// default while any address exists.
func DeleteAddress(db *gorm.DB, userID, addressID uint) error {
	var addr Address
	if err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&addr).Error; err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&addr).Error; err != nil {
			return err
		}
		if !addr.IsDefault {
			return nil
		}
		var next Address
		err := tx.Where("user_id = ?", userID).Order("created_at DESC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
}

// DefaultAddress returns the user's default address, if any.
func DefaultAddress(db *gorm.DB, userID uint) (*Address, error) {
	var addr Address
	if err := db.Where("user_id = ? AND is_default = ?", userID, true).First(&addr).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomType is the internal room catalogue. InvTypeCode is the external
// system's code for the type; TotalUnits is the configured physical inventory
// that remaining-units computations subtract bookings from.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName    string `json:"typeName"`
	Description string `json:"description"`
	InvTypeCode string `gorm:"column:inv_type_code;size:50;uniqueIndex" json:"invTypeCode"`
	MaxGuests   uint   `json:"max_guests"`
	TotalUnits  int    `gorm:"column:total_units" json:"totalUnits"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

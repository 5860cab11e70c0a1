package models

import "time"

// InventoryRecord is the authoritative available count for a room type on one
// date. Updates replace the count; nothing ever increments or decrements it.
type InventoryRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time

	RoomTypeCode   string    `gorm:"column:room_type_code;size:50;uniqueIndex:idx_inv_key" json:"roomTypeCode"`
	Date           time.Time `gorm:"column:date;type:date;uniqueIndex:idx_inv_key" json:"date"`
	AvailableCount int       `gorm:"column:available_count" json:"availableCount"`
}

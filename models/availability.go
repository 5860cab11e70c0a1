package models

import "time"

// AvailabilityRecord is one day of restriction state for a room/rate pair.
// Pushed date ranges are expanded to one row per day; the natural key is
// (room_code, rate_plan_code, date) and later writes replace earlier ones.
type AvailabilityRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time

	RoomCode     string    `gorm:"column:room_code;size:50;uniqueIndex:idx_avail_key" json:"roomCode"`
	RatePlanCode string    `gorm:"column:rate_plan_code;size:50;uniqueIndex:idx_avail_key" json:"ratePlanCode"`
	Date         time.Time `gorm:"column:date;type:date;uniqueIndex:idx_avail_key" json:"date"`

	MealPlanCode      string `gorm:"column:meal_plan_code;size:20" json:"mealPlanCode,omitempty"`
	RestrictionType   string `gorm:"column:restriction_type;size:32" json:"restrictionType,omitempty"`
	RestrictionStatus string `gorm:"column:restriction_status;size:32" json:"restrictionStatus,omitempty"`
	MinLOS            int    `gorm:"column:min_los" json:"minLOS,omitempty"`
	MaxLOS            int    `gorm:"column:max_los" json:"maxLOS,omitempty"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking lifecycle states. A correlation id moves strictly forward through
// these; Confirmed is reached at most once.
const (
	BookingStateInitiated    = "INITIATED"
	BookingStateSent         = "SENT"
	BookingStateAcknowledged = "ACKNOWLEDGED"
	BookingStateConfirmed    = "CONFIRMED"
	BookingStateFailed       = "FAILED"
	BookingStateCancelled    = "CANCELLED"
)

// ExternalBooking is one booking attempt pushed to the PMS, one row per
// correlation id. The raw request/response columns are audit snapshots of the
// exact bytes exchanged.
type ExternalBooking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CorrelationID        string `gorm:"column:correlation_id;size:64;uniqueIndex" json:"correlationId"`
	State                string `gorm:"column:state;size:32;index" json:"state"`
	PMSReservationNumber string `gorm:"column:pms_reservation_number;size:64" json:"pmsReservationNumber,omitempty"`

	RoomCode     string `gorm:"column:room_code;size:50" json:"roomCode"`
	RatePlanCode string `gorm:"column:rate_plan_code;size:50" json:"ratePlanCode"`

	CheckIn  time.Time `gorm:"column:check_in" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out" json:"checkOut"`

	GuestName    string `gorm:"column:guest_name;size:255" json:"guestName"`
	GuestEmail   string `gorm:"column:guest_email;size:255" json:"guestEmail"`
	GuestPhone   string `gorm:"column:guest_phone;size:64" json:"guestPhone,omitempty"`
	GuestCountry string `gorm:"column:guest_country;size:2" json:"guestCountry,omitempty"`

	TotalAmount   float64 `gorm:"column:total_amount" json:"totalAmount"`
	DepositAmount float64 `gorm:"column:deposit_amount" json:"depositAmount"`
	CurrencyCode  string  `gorm:"column:currency_code;size:3" json:"currencyCode"`

	Adults          int            `gorm:"column:adults;default:1" json:"adults"`
	Children        int            `gorm:"column:children;default:0" json:"children"`
	SpecialRequests datatypes.JSON `gorm:"column:special_requests" json:"specialRequests,omitempty"`

	FailureReason string         `gorm:"column:failure_reason;type:text" json:"failureReason,omitempty"`
	RawRequest    datatypes.JSON `gorm:"column:raw_request" json:"-"`
	RawResponse   datatypes.JSON `gorm:"column:raw_response" json:"-"`
	ConfirmedAt   *time.Time     `gorm:"column:confirmed_at" json:"confirmedAt,omitempty"`
}

// ActiveStates are the states that still occupy a unit for remaining-units
// arithmetic. Failed and cancelled bookings free their unit.
func ActiveStates() []string {
	return []string{BookingStateSent, BookingStateAcknowledged, BookingStateConfirmed}
}

package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hotel-channel/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// transportMock records every payload and replays canned responses.
type transportMock struct {
	mu        sync.Mutex
	Sent      [][]byte
	Responses [][]byte
	Err       error
}

func (t *transportMock) Send(_ context.Context, payload []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Sent = append(t.Sent, payload)
	if t.Err != nil {
		return nil, t.Err
	}
	if len(t.Responses) == 0 {
		return []byte(`<OTA_HotelResNotifRS><Success/></OTA_HotelResNotifRS>`), nil
	}
	resp := t.Responses[0]
	if len(t.Responses) > 1 {
		t.Responses = t.Responses[1:]
	}
	return resp, nil
}

// storeMock is the in-memory BookingStore + SyncStore used across the service
// tests.
type storeMock struct {
	mu       sync.Mutex
	bookings map[string]*models.ExternalBooking

	inventory    map[string]int                       // roomType|date -> count
	availability map[string]models.AvailabilityRecord // room|rate|date
	units        map[string]int                       // invTypeCode -> total units
}

func newStoreMock() *storeMock {
	return &storeMock{
		bookings:     map[string]*models.ExternalBooking{},
		inventory:    map[string]int{},
		availability: map[string]models.AvailabilityRecord{},
		units:        map[string]int{},
	}
}

func (s *storeMock) Create(_ context.Context, booking *models.ExternalBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bookings[booking.CorrelationID]; exists {
		return ErrAlreadySent
	}
	clone := *booking
	s.bookings[booking.CorrelationID] = &clone
	return nil
}

func (s *storeMock) GetByCorrelationID(_ context.Context, correlationID string) (*models.ExternalBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[correlationID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	clone := *booking
	return &clone, nil
}

func (s *storeMock) Update(_ context.Context, correlationID string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[correlationID]
	if !ok {
		return ErrBookingNotFound
	}
	if state, ok := fields["state"].(string); ok {
		booking.State = state
	}
	if reason, ok := fields["failure_reason"].(string); ok {
		booking.FailureReason = reason
	}
	return nil
}

func (s *storeMock) Confirm(_ context.Context, correlationID, pmsNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[correlationID]
	if !ok || booking.State == models.BookingStateConfirmed {
		return false, nil
	}
	booking.State = models.BookingStateConfirmed
	booking.PMSReservationNumber = pmsNumber
	return true, nil
}

func invKey(roomType string, date time.Time) string {
	return roomType + "|" + date.Format("2006-01-02")
}

func availKey(room, rate string, date time.Time) string {
	return room + "|" + rate + "|" + date.Format("2006-01-02")
}

func (s *storeMock) UpsertInventory(_ context.Context, rec *models.InventoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[invKey(rec.RoomTypeCode, rec.Date)] = rec.AvailableCount
	return nil
}

func (s *storeMock) UpsertAvailability(_ context.Context, rec *models.AvailabilityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availability[availKey(rec.RoomCode, rec.RatePlanCode, rec.Date)] = *rec
	return nil
}

func (s *storeMock) RoomTypeUnits(_ context.Context, invTypeCode string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units[invTypeCode], nil
}

// Mirrors the half-open overlap predicate of the SQL implementation.
func (s *storeMock) CountOverlappingActive(_ context.Context, roomCode string, checkIn, checkOut time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := map[string]bool{}
	for _, state := range models.ActiveStates() {
		active[state] = true
	}

	var count int64
	for _, booking := range s.bookings {
		if booking.RoomCode != roomCode || !active[booking.State] {
			continue
		}
		if booking.CheckIn.Before(checkOut) && booking.CheckOut.After(checkIn) {
			count++
		}
	}
	return count, nil
}

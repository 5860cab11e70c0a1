package services

import (
	"context"
	"errors"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"hotel-channel/models"
)

// BookingStore is the persistence port of the reconciliation engine. The gorm
// implementation below is the production one; tests use an in-memory fake.
type BookingStore interface {
	Create(ctx context.Context, booking *models.ExternalBooking) error
	GetByCorrelationID(ctx context.Context, correlationID string) (*models.ExternalBooking, error)
	Update(ctx context.Context, correlationID string, fields map[string]interface{}) error
	// Confirm performs a compare-and-set to CONFIRMED and reports whether
	// this call was the one that flipped the state.
	Confirm(ctx context.Context, correlationID, pmsNumber string) (bool, error)
}

// SyncStore is the persistence port of the availability/inventory sync.
type SyncStore interface {
	UpsertInventory(ctx context.Context, rec *models.InventoryRecord) error
	UpsertAvailability(ctx context.Context, rec *models.AvailabilityRecord) error
	RoomTypeUnits(ctx context.Context, invTypeCode string) (int, error)
	CountOverlappingActive(ctx context.Context, roomCode string, checkIn, checkOut time.Time) (int64, error)
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Create(ctx context.Context, booking *models.ExternalBooking) error {
	err := s.DB.WithContext(ctx).Create(booking).Error
	if err == nil {
		return nil
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrAlreadySent
	}
	return err
}

func (s *GormStore) GetByCorrelationID(ctx context.Context, correlationID string) (*models.ExternalBooking, error) {
	var booking models.ExternalBooking
	err := s.DB.WithContext(ctx).Where("correlation_id = ?", correlationID).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *GormStore) Update(ctx context.Context, correlationID string, fields map[string]interface{}) error {
	return s.DB.WithContext(ctx).
		Model(&models.ExternalBooking{}).
		Where("correlation_id = ?", correlationID).
		Updates(fields).Error
}

func (s *GormStore) Confirm(ctx context.Context, correlationID, pmsNumber string) (bool, error) {
	now := time.Now().UTC()
	res := s.DB.WithContext(ctx).
		Model(&models.ExternalBooking{}).
		Where("correlation_id = ? AND state <> ?", correlationID, models.BookingStateConfirmed).
		Updates(map[string]interface{}{
			"state":                  models.BookingStateConfirmed,
			"pms_reservation_number": pmsNumber,
			"confirmed_at":           now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) UpsertInventory(ctx context.Context, rec *models.InventoryRecord) error {
	var existing models.InventoryRecord
	err := s.DB.WithContext(ctx).
		Where("room_type_code = ? AND date = ?", rec.RoomTypeCode, rec.Date).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.DB.WithContext(ctx).Create(rec).Error
	}
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&existing).
		Update("available_count", rec.AvailableCount).Error
}

func (s *GormStore) UpsertAvailability(ctx context.Context, rec *models.AvailabilityRecord) error {
	var existing models.AvailabilityRecord
	err := s.DB.WithContext(ctx).
		Where("room_code = ? AND rate_plan_code = ? AND date = ?", rec.RoomCode, rec.RatePlanCode, rec.Date).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.DB.WithContext(ctx).Create(rec).Error
	}
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"meal_plan_code":     rec.MealPlanCode,
		"restriction_type":   rec.RestrictionType,
		"restriction_status": rec.RestrictionStatus,
		"min_los":            rec.MinLOS,
		"max_los":            rec.MaxLOS,
	}).Error
}

func (s *GormStore) RoomTypeUnits(ctx context.Context, invTypeCode string) (int, error) {
	var roomType models.RoomType
	err := s.DB.WithContext(ctx).Where("inv_type_code = ?", invTypeCode).First(&roomType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return roomType.TotalUnits, nil
}

// CountOverlappingActive counts bookings whose stay overlaps the half-open
// [checkIn, checkOut) window; same-day turnover does not overlap.
func (s *GormStore) CountOverlappingActive(ctx context.Context, roomCode string, checkIn, checkOut time.Time) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.ExternalBooking{}).
		Where("room_code = ? AND state IN ? AND check_in < ? AND check_out > ?",
			roomCode, models.ActiveStates(), checkOut, checkIn).
		Count(&count).Error
	return count, err
}

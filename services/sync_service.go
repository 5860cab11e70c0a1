package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"hotel-channel/codemap"
	"hotel-channel/config"
	"hotel-channel/models"
	"hotel-channel/ota"
)

const dateLayout = "2006-01-02"

// InventoryUpdate is one decoded inventory line, covering the inclusive
// [Start, End] date range.
type InventoryUpdate struct {
	RoomTypeCode string
	Start        time.Time
	End          time.Time
	Count        int
}

// AvailabilityUpdate is one decoded availability/restriction line.
type AvailabilityUpdate struct {
	RoomCode          string
	RatePlanCode      string
	MealPlanCode      string
	Start             time.Time
	End               time.Time
	RestrictionType   string
	RestrictionStatus string
	MinLOS            int
	MaxLOS            int
}

// SyncService keeps local availability/inventory in step with the PMS. The
// push path (webhooks) and the pull path (periodic query) both funnel into
// ApplyInventory/ApplyAvailability, so last-write-wins semantics live in
// exactly one place.
type SyncService struct {
	store     SyncStore
	transport Transport
	mapper    *codemap.Mapper
	cfg       *config.ChannelConfig
	log       *logrus.Logger
}

func NewSyncService(store SyncStore, transport Transport, mapper *codemap.Mapper, cfg *config.ChannelConfig, log *logrus.Logger) *SyncService {
	return &SyncService{store: store, transport: transport, mapper: mapper, cfg: cfg, log: log}
}

// ApplyInventory expands each update to per-date rows and upserts them.
// Later calls overwrite earlier ones per (roomType, date).
func (s *SyncService) ApplyInventory(ctx context.Context, updates []InventoryUpdate) error {
	for _, u := range updates {
		for date := u.Start; !date.After(u.End); date = date.AddDate(0, 0, 1) {
			rec := &models.InventoryRecord{
				RoomTypeCode:   u.RoomTypeCode,
				Date:           date,
				AvailableCount: u.Count,
			}
			if err := s.store.UpsertInventory(ctx, rec); err != nil {
				return fmt.Errorf("upsert inventory %s %s: %w", u.RoomTypeCode, date.Format(dateLayout), err)
			}
		}
	}
	return nil
}

func (s *SyncService) ApplyAvailability(ctx context.Context, updates []AvailabilityUpdate) error {
	for _, u := range updates {
		for date := u.Start; !date.After(u.End); date = date.AddDate(0, 0, 1) {
			rec := &models.AvailabilityRecord{
				RoomCode:          u.RoomCode,
				RatePlanCode:      u.RatePlanCode,
				Date:              date,
				MealPlanCode:      u.MealPlanCode,
				RestrictionType:   u.RestrictionType,
				RestrictionStatus: u.RestrictionStatus,
				MinLOS:            u.MinLOS,
				MaxLOS:            u.MaxLOS,
			}
			if err := s.store.UpsertAvailability(ctx, rec); err != nil {
				return fmt.Errorf("upsert availability %s/%s %s: %w", u.RoomCode, u.RatePlanCode, date.Format(dateLayout), err)
			}
		}
	}
	return nil
}

// ApplyInvCountNotif converts a pushed inventory-count document into updates,
// mapping external codes back to internal ones.
func (s *SyncService) ApplyInvCountNotif(ctx context.Context, rq *ota.HotelInvCountNotifRQ) error {
	updates := make([]InventoryUpdate, 0, len(rq.Inventories.Inventory))
	for _, inv := range rq.Inventories.Inventory {
		start, end, err := parseRange(inv.StatusApplicationControl)
		if err != nil {
			return err
		}
		count := 0
		if inv.InvCounts != nil && len(inv.InvCounts.InvCount) > 0 {
			count = inv.InvCounts.InvCount[0].Count
		}
		updates = append(updates, InventoryUpdate{
			RoomTypeCode: s.mapper.ToInternal(codemap.KindRoom, inv.StatusApplicationControl.InvTypeCode),
			Start:        start,
			End:          end,
			Count:        count,
		})
	}
	return s.ApplyInventory(ctx, updates)
}

func (s *SyncService) ApplyAvailNotif(ctx context.Context, rq *ota.HotelAvailNotifRQ) error {
	updates := make([]AvailabilityUpdate, 0, len(rq.AvailStatusMessages.AvailStatusMessage))
	for _, msg := range rq.AvailStatusMessages.AvailStatusMessage {
		start, end, err := parseRange(msg.StatusApplicationControl)
		if err != nil {
			return err
		}
		u := AvailabilityUpdate{
			RoomCode:     s.mapper.ToInternal(codemap.KindRoom, msg.StatusApplicationControl.InvTypeCode),
			RatePlanCode: s.mapper.ToInternal(codemap.KindRatePlan, msg.StatusApplicationControl.RatePlanCode),
			MealPlanCode: msg.StatusApplicationControl.MealPlanCode,
			Start:        start,
			End:          end,
		}
		if msg.RestrictionStatus != nil {
			u.RestrictionType = msg.RestrictionStatus.Restriction
			u.RestrictionStatus = msg.RestrictionStatus.Status
		}
		if msg.LengthsOfStay != nil {
			for _, los := range msg.LengthsOfStay.LengthOfStay {
				switch los.MinMaxMessageType {
				case "SetMinLOS":
					u.MinLOS = los.Time
				case "SetMaxLOS":
					u.MaxLOS = los.Time
				}
			}
		}
		updates = append(updates, u)
	}
	return s.ApplyAvailability(ctx, updates)
}

// ApplyRatePlanNotif acknowledges rate pushes. Rates have no local state to
// land in yet, so the content is only logged.
func (s *SyncService) ApplyRatePlanNotif(_ context.Context, rq *ota.HotelRatePlanNotifRQ) error {
	s.log.WithFields(logrus.Fields{
		"hotel_code": rq.RatePlans.HotelCode,
		"rate_plans": len(rq.RatePlans.RatePlan),
	}).Info("rate plan notification received")
	return nil
}

// RemainingUnits computes how many units of a room type are free across the
// half-open [checkIn, checkOut) window:
// max(0, configured units − overlapping active bookings).
func (s *SyncService) RemainingUnits(ctx context.Context, roomTypeCode string, checkIn, checkOut time.Time) (int, error) {
	units, err := s.store.RoomTypeUnits(ctx, roomTypeCode)
	if err != nil {
		return 0, err
	}

	externalCode := s.mapper.ToExternal(codemap.KindRoom, roomTypeCode)
	booked, err := s.store.CountOverlappingActive(ctx, externalCode, checkIn, checkOut)
	if err != nil {
		return 0, err
	}

	remaining := units - int(booked)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// RunPeriodicPull queries the PMS for the configured room/rate pairs on a
// ticker and merges results through the same Apply path as the webhooks. It
// returns when ctx is cancelled. A zero interval disables the task.
func (s *SyncService) RunPeriodicPull(ctx context.Context) {
	if s.cfg.SyncInterval <= 0 {
		s.log.Info("periodic availability pull disabled")
		return
	}

	ticker := time.NewTicker(s.cfg.SyncInterval)
	defer ticker.Stop()

	s.log.WithField("interval", s.cfg.SyncInterval.String()).Info("periodic availability pull started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("periodic availability pull stopped")
			return
		case <-ticker.C:
			if err := s.PullOnce(ctx); err != nil {
				s.log.WithError(err).Warn("availability pull failed")
			}
		}
	}
}

// PullOnce issues one availability query across the configured window and
// merges the response.
func (s *SyncService) PullOnce(ctx context.Context) error {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, s.cfg.SyncWindow)

	query := &ota.HotelAvailNotifRQ{
		Xmlns:     ota.Namespace,
		TimeStamp: ota.Timestamp(time.Now()),
		Version:   ota.Version,
		AvailStatusMessages: ota.AvailStatusMessages{
			HotelCode:          s.cfg.HotelCode,
			AvailStatusMessage: s.queryLines(start, end),
		},
	}

	payload, err := ota.Encode(ota.MsgAvailNotif, query)
	if err != nil {
		return err
	}

	response, err := s.transport.Send(ctx, payload)
	if err != nil {
		return err
	}

	// The PMS answers a pull with the same notification document the push
	// path receives, so the decode and merge are shared.
	rq, err := ota.DecodeAvailNotif(response)
	if err != nil {
		return err
	}
	return s.ApplyAvailNotif(ctx, rq)
}

func (s *SyncService) queryLines(start, end time.Time) []ota.AvailStatusMessage {
	lines := []ota.AvailStatusMessage{}
	for _, roomExternal := range s.cfg.RoomCodes {
		for _, rateExternal := range s.cfg.RatePlanCodes {
			lines = append(lines, ota.AvailStatusMessage{
				StatusApplicationControl: ota.StatusApplicationControl{
					Start:        start.Format(dateLayout),
					End:          end.Format(dateLayout),
					InvTypeCode:  roomExternal,
					RatePlanCode: rateExternal,
				},
			})
		}
	}
	return lines
}

func parseRange(sac ota.StatusApplicationControl) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, sac.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad Start date %q: %w", sac.Start, err)
	}
	end, err := time.Parse(dateLayout, sac.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad End date %q: %w", sac.End, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("End %q before Start %q", sac.End, sac.Start)
	}
	return start, end, nil
}

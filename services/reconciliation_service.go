package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"hotel-channel/codemap"
	"hotel-channel/config"
	"hotel-channel/models"
	"hotel-channel/ota"
)

// BookingRequest is the collaborator-facing payload for an external booking.
// Codes are internal identifiers; the engine maps them before encoding.
type BookingRequest struct {
	CorrelationID   string    `json:"correlationId,omitempty"`
	RoomCode        string    `json:"roomCode" binding:"required"`
	RatePlanCode    string    `json:"ratePlanCode" binding:"required"`
	CheckIn         time.Time `json:"checkIn" binding:"required"`
	CheckOut        time.Time `json:"checkOut" binding:"required"`
	GuestName       string    `json:"guestName" binding:"required"`
	GuestEmail      string    `json:"guestEmail" binding:"required"`
	GuestPhone      string    `json:"guestPhone,omitempty"`
	GuestCountry    string    `json:"guestCountry,omitempty"`
	TotalAmount     float64   `json:"totalAmount"`
	DepositAmount   float64   `json:"depositAmount"`
	CurrencyCode    string    `json:"currencyCode"`
	Adults          int       `json:"adults"`
	Children        int       `json:"children"`
	SpecialRequests []string  `json:"specialRequests,omitempty"`
}

type BookingResult struct {
	CorrelationID string `json:"correlationId"`
	State         string `json:"state"`
}

// ConfirmationHook runs exactly once per booking, on the transition to
// CONFIRMED. Downstream side-effects (email dispatch and the like) hang off
// it.
type ConfirmationHook func(booking *models.ExternalBooking)

// ReconciliationService owns the booking lifecycle against the PMS: it sends
// creations and cancellations and matches asynchronous confirmations back to
// the originating correlation id.
type ReconciliationService struct {
	store     BookingStore
	transport Transport
	mapper    *codemap.Mapper
	cfg       *config.ChannelConfig
	log       *logrus.Logger
	onConfirm ConfirmationHook

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewReconciliationService(store BookingStore, transport Transport, mapper *codemap.Mapper, cfg *config.ChannelConfig, log *logrus.Logger) *ReconciliationService {
	return &ReconciliationService{
		store:     store,
		transport: transport,
		mapper:    mapper,
		cfg:       cfg,
		log:       log,
		locks:     map[string]*sync.Mutex{},
	}
}

// SetConfirmationHook installs the downstream side-effect callback. Call it
// during wiring, before any webhook traffic arrives.
func (s *ReconciliationService) SetConfirmationHook(hook ConfirmationHook) {
	s.onConfirm = hook
}

// lockFor returns the per-correlation-id mutex, creating it on first use.
// Duplicate confirmations under at-least-once delivery serialize on it.
func (s *ReconciliationService) lockFor(correlationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[correlationID]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[correlationID] = l
	return l
}

// CreateBooking sends one booking creation to the PMS and interprets the
// synchronous acknowledgment. The correlation id is generated when the caller
// does not supply one; a correlation id that already has a row is never sent
// again.
func (s *ReconciliationService) CreateBooking(ctx context.Context, req BookingRequest) (BookingResult, error) {
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.NewString()
	}
	if err := validateBookingRequest(req); err != nil {
		return BookingResult{}, err
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = "EUR"
	}
	if req.Adults == 0 {
		req.Adults = 1
	}

	booking := &models.ExternalBooking{
		CorrelationID: req.CorrelationID,
		State:         models.BookingStateInitiated,
		RoomCode:      s.mapper.ToExternal(codemap.KindRoom, req.RoomCode),
		RatePlanCode:  s.mapper.ToExternal(codemap.KindRatePlan, req.RatePlanCode),
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		GuestPhone:    req.GuestPhone,
		GuestCountry:  req.GuestCountry,
		TotalAmount:   req.TotalAmount,
		DepositAmount: req.DepositAmount,
		CurrencyCode:  req.CurrencyCode,
		Adults:        req.Adults,
		Children:      req.Children,
	}
	if len(req.SpecialRequests) > 0 {
		raw, _ := json.Marshal(req.SpecialRequests)
		booking.SpecialRequests = datatypes.JSON(raw)
	}

	if err := s.store.Create(ctx, booking); err != nil {
		return BookingResult{}, err
	}

	payload, err := ota.Encode(ota.MsgResNotif, s.buildResNotif(booking, "Commit", req.SpecialRequests))
	if err != nil {
		s.fail(ctx, booking.CorrelationID, err.Error())
		return BookingResult{CorrelationID: booking.CorrelationID, State: models.BookingStateFailed}, err
	}

	_ = s.store.Update(ctx, booking.CorrelationID, map[string]interface{}{
		"state":       models.BookingStateSent,
		"raw_request": snapshot(payload),
	})

	response, err := s.transport.Send(ctx, payload)
	if err != nil {
		s.fail(ctx, booking.CorrelationID, err.Error())
		return BookingResult{CorrelationID: booking.CorrelationID, State: models.BookingStateFailed}, err
	}

	state, err := s.interpretAck(ctx, booking.CorrelationID, response)
	return BookingResult{CorrelationID: booking.CorrelationID, State: state}, err
}

// interpretAck applies the tri-state outcome of the synchronous response.
func (s *ReconciliationService) interpretAck(ctx context.Context, correlationID string, response []byte) (string, error) {
	_ = s.store.Update(ctx, correlationID, map[string]interface{}{"raw_response": snapshot(response)})

	outcome, err := ota.ParseResponse(response)
	if err != nil {
		s.fail(ctx, correlationID, err.Error())
		return models.BookingStateFailed, err
	}

	switch outcome.Kind {
	case ota.OutcomeSuccess:
		_ = s.store.Update(ctx, correlationID, map[string]interface{}{"state": models.BookingStateAcknowledged})
		return models.BookingStateAcknowledged, nil

	case ota.OutcomeError:
		perr := &ProtocolError{Remote: outcome.ErrorText()}
		s.fail(ctx, correlationID, perr.Remote)
		return models.BookingStateFailed, perr

	default:
		// ambiguous_as_success: a bare receipt with the echoed correlation id
		// counts as an acknowledgment. Logged on every hit so operators can
		// audit how often the heuristic fires.
		if s.cfg.AmbiguousAsSuccess && outcome.EchoToken == correlationID {
			s.log.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"branch":         "ambiguous_as_success",
			}).Warn("acknowledgment lacked <Success/>, accepting well-formed envelope")
			_ = s.store.Update(ctx, correlationID, map[string]interface{}{"state": models.BookingStateAcknowledged})
			return models.BookingStateAcknowledged, nil
		}
		perr := &ProtocolError{Remote: "ambiguous acknowledgment without echoed correlation id"}
		s.fail(ctx, correlationID, perr.Remote)
		return models.BookingStateFailed, perr
	}
}

// OnConfirmation matches an asynchronous notification report back to its
// booking. Soft failures (unknown id) are logged and swallowed so the webhook
// can still acknowledge; duplicates are idempotent no-ops.
func (s *ReconciliationService) OnConfirmation(ctx context.Context, notif *ota.NotifReportRQ) error {
	correlationID := strings.TrimSpace(notif.EchoToken)
	pmsNumber := notif.ReservationID()

	if correlationID == "" {
		s.log.Warn("confirmation without echo token, cannot correlate")
		return nil
	}

	lock := s.lockFor(correlationID)
	lock.Lock()
	defer lock.Unlock()

	booking, err := s.store.GetByCorrelationID(ctx, correlationID)
	if errors.Is(err, ErrBookingNotFound) {
		// Stale or retried delivery for a booking we never made. Policy is
		// log-and-ack; see DESIGN.md.
		s.log.WithField("correlation_id", correlationID).Warn("confirmation for unknown booking, ignoring")
		return nil
	}
	if err != nil {
		return err
	}

	if booking.State == models.BookingStateConfirmed {
		s.log.WithField("correlation_id", correlationID).Info("duplicate confirmation, no-op")
		return nil
	}

	changed, err := s.store.Confirm(ctx, correlationID, pmsNumber)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"pms_number":     pmsNumber,
	}).Info("booking confirmed")

	if s.onConfirm != nil {
		booking.State = models.BookingStateConfirmed
		booking.PMSReservationNumber = pmsNumber
		s.onConfirm(booking)
	}
	return nil
}

// CancelBooking pushes a one-shot cancellation. It does not depend on the
// confirmation state; a booking can be cancelled before its confirmation ever
// arrives.
func (s *ReconciliationService) CancelBooking(ctx context.Context, correlationID, reason string) error {
	booking, err := s.store.GetByCorrelationID(ctx, correlationID)
	if err != nil {
		return err
	}

	var comments []string
	if reason != "" {
		comments = []string{reason}
	}
	payload, err := ota.Encode(ota.MsgResNotif, s.buildResNotif(booking, "Cancel", comments))
	if err != nil {
		return err
	}

	response, err := s.transport.Send(ctx, payload)
	if err != nil {
		return err
	}

	outcome, err := ota.ParseResponse(response)
	if err != nil {
		return err
	}
	if !outcome.OK(s.cfg.AmbiguousAsSuccess) {
		return &ProtocolError{Remote: outcome.ErrorText()}
	}

	return s.store.Update(ctx, correlationID, map[string]interface{}{
		"state":          models.BookingStateCancelled,
		"failure_reason": reason,
	})
}

func (s *ReconciliationService) GetBookingState(ctx context.Context, correlationID string) (*models.ExternalBooking, error) {
	return s.store.GetByCorrelationID(ctx, correlationID)
}

func (s *ReconciliationService) fail(ctx context.Context, correlationID, reason string) {
	_ = s.store.Update(ctx, correlationID, map[string]interface{}{
		"state":          models.BookingStateFailed,
		"failure_reason": reason,
	})
}

// buildResNotif produces the full reservation notification document. The remote
// side validates the shape rigidly, so field placement here is load-bearing.
func (s *ReconciliationService) buildResNotif(booking *models.ExternalBooking, resStatus string, comments []string) *ota.HotelResNotifRQ {
	given, surname := splitName(booking.GuestName)

	guestCounts := []ota.GuestCount{{AgeQualifyingCode: "10", Count: booking.Adults}}
	if booking.Children > 0 {
		guestCounts = append(guestCounts, ota.GuestCount{AgeQualifyingCode: "8", Count: booking.Children})
	}

	stay := ota.RoomStay{
		RoomTypes: ota.RoomTypesBlock{RoomType: []ota.RoomTypeRef{{
			RoomTypeCode:  booking.RoomCode,
			NumberOfUnits: 1,
		}}},
		RatePlans: ota.RatePlansBlock{RatePlan: []ota.RatePlanRef{{RatePlanCode: booking.RatePlanCode}}},
		RoomRates: ota.RoomRates{RoomRate: []ota.RoomRate{{
			RoomTypeCode: booking.RoomCode,
			RatePlanCode: booking.RatePlanCode,
			Rates: &ota.RateSpans{Rate: []ota.RateSpan{{
				EffectiveDate: booking.CheckIn.Format("2006-01-02"),
				ExpireDate:    booking.CheckOut.Format("2006-01-02"),
				Base:          &ota.Base{AmountAfterTax: amount(booking.TotalAmount), CurrencyCode: booking.CurrencyCode},
			}}},
		}}},
		GuestCounts: ota.GuestCounts{GuestCount: guestCounts},
		TimeSpan: ota.TimeSpan{
			Start: booking.CheckIn.Format("2006-01-02"),
			End:   booking.CheckOut.Format("2006-01-02"),
		},
		Total:             &ota.Total{AmountAfterTax: amount(booking.TotalAmount), CurrencyCode: booking.CurrencyCode},
		BasicPropertyInfo: &ota.BasicPropertyInfo{HotelCode: s.cfg.HotelCode},
	}

	contact := &ota.CustomerInfo{
		PersonName: ota.PersonName{GivenName: given, Surname: surname},
		Email:      booking.GuestEmail,
	}
	if booking.GuestPhone != "" {
		contact.Telephone = &ota.Telephone{PhoneNumber: booking.GuestPhone}
	}
	if booking.GuestCountry != "" {
		contact.Address = &ota.Address{CountryName: ota.CountryName{Code: booking.GuestCountry}}
	}

	globalInfo := &ota.ResGlobalInfo{
		HotelReservationIDs: &ota.HotelReservationIDs{HotelReservationID: []ota.HotelReservationID{{
			ResIDType:   "14",
			ResIDValue:  booking.CorrelationID,
			ResIDSource: "hotel-channel",
		}}},
	}
	if booking.DepositAmount > 0 {
		globalInfo.DepositPayments = &ota.DepositPayments{GuaranteePayment: []ota.GuaranteePayment{{
			AmountPercent: ota.AmountPercent{Amount: amount(booking.DepositAmount), CurrencyCode: booking.CurrencyCode},
		}}}
	}
	if len(comments) > 0 {
		cs := make([]ota.Comment, 0, len(comments))
		for _, text := range comments {
			cs = append(cs, ota.Comment{Text: text})
		}
		globalInfo.Comments = &ota.Comments{Comment: cs}
	}

	return &ota.HotelResNotifRQ{
		Xmlns:     ota.Namespace,
		EchoToken: booking.CorrelationID,
		TimeStamp: ota.Timestamp(time.Now()),
		Version:   ota.Version,
		ResStatus: resStatus,
		HotelReservations: ota.HotelReservations{HotelReservation: []ota.HotelReservation{{
			CreateDateTime: ota.Timestamp(booking.CreatedAt),
			RoomStays:      ota.RoomStays{RoomStay: []ota.RoomStay{stay}},
			Services: &ota.ResServices{Service: []ota.ResService{{
				ServiceInventoryCode: "GUEST_CONTACT",
				ServiceDetails:       &ota.ServiceDetails{CustomerInfo: contact},
			}}},
			ResGlobalInfo: globalInfo,
		}}},
	}
}

func validateBookingRequest(req BookingRequest) error {
	if !req.CheckOut.After(req.CheckIn) {
		return fmt.Errorf("check_out must be after check_in")
	}
	if strings.TrimSpace(req.GuestName) == "" || strings.TrimSpace(req.GuestEmail) == "" {
		return fmt.Errorf("guest name and email are required")
	}
	if req.RoomCode == "" || req.RatePlanCode == "" {
		return fmt.Errorf("room and rate plan codes are required")
	}
	return nil
}

func splitName(full string) (given, surname string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// snapshot wraps raw exchanged bytes into a JSON envelope so they can live in
// the audit columns.
func snapshot(raw []byte) datatypes.JSON {
	b, _ := json.Marshal(map[string]string{"body": string(raw)})
	return datatypes.JSON(b)
}

// controllers/booking_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-channel/services"
	"hotel-channel/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

// CreateExternalBookingRequest carries dates as plain YYYY-MM-DD strings; the
// booking/pricing collaborator works in calendar dates, not timestamps.
type CreateExternalBookingRequest struct {
	CorrelationID   string   `json:"correlationId,omitempty"`
	RoomCode        string   `json:"roomCode" binding:"required"`
	RatePlanCode    string   `json:"ratePlanCode" binding:"required"`
	CheckIn         string   `json:"checkIn" binding:"required"`
	CheckOut        string   `json:"checkOut" binding:"required"`
	GuestName       string   `json:"guestName" binding:"required"`
	GuestEmail      string   `json:"guestEmail" binding:"required"`
	GuestPhone      string   `json:"guestPhone,omitempty"`
	GuestCountry    string   `json:"guestCountry,omitempty"`
	TotalAmount     float64  `json:"totalAmount"`
	DepositAmount   float64  `json:"depositAmount"`
	CurrencyCode    string   `json:"currencyCode"`
	Adults          int      `json:"adults"`
	Children        int      `json:"children"`
	SpecialRequests []string `json:"specialRequests,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	Reconciliation *services.ReconciliationService
	Sync           *services.SyncService
}

func NewBookingController(reconciliation *services.ReconciliationService, sync *services.SyncService) *BookingController {
	return &BookingController{Reconciliation: reconciliation, Sync: sync}
}

// CreateExternalBooking pushes a booking to the PMS and reports the resulting
// state. Transport and protocol failures surface with distinct statuses so
// the collaborator can decide what the user sees.
func (bc *BookingController) CreateExternalBooking(c *gin.Context) {
	var payload CreateExternalBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	checkIn, err := parseDate(payload.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkIn: expected YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(payload.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkOut: expected YYYY-MM-DD")
		return
	}

	result, err := bc.Reconciliation.CreateBooking(c.Request.Context(), services.BookingRequest{
		CorrelationID:   payload.CorrelationID,
		RoomCode:        payload.RoomCode,
		RatePlanCode:    payload.RatePlanCode,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		GuestName:       payload.GuestName,
		GuestEmail:      payload.GuestEmail,
		GuestPhone:      payload.GuestPhone,
		GuestCountry:    payload.GuestCountry,
		TotalAmount:     payload.TotalAmount,
		DepositAmount:   payload.DepositAmount,
		CurrencyCode:    payload.CurrencyCode,
		Adults:          payload.Adults,
		Children:        payload.Children,
		SpecialRequests: payload.SpecialRequests,
	})
	if err != nil {
		bc.respondBookingError(c, result, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, result)
}

func (bc *BookingController) GetBookingState(c *gin.Context) {
	booking, err := bc.Reconciliation.GetBookingState(c.Request.Context(), c.Param("correlationId"))
	if errors.Is(err, services.ErrBookingNotFound) {
		utils.JSONError(c, http.StatusNotFound, "booking_not_found")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (bc *BookingController) CancelBooking(c *gin.Context) {
	var payload CancelBookingRequest
	_ = c.ShouldBindJSON(&payload)

	err := bc.Reconciliation.CancelBooking(c.Request.Context(), c.Param("correlationId"), payload.Reason)
	if errors.Is(err, services.ErrBookingNotFound) {
		utils.JSONError(c, http.StatusNotFound, "booking_not_found")
		return
	}
	if err != nil {
		bc.respondBookingError(c, services.BookingResult{}, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"state": "CANCELLED"})
}

// GetRemainingUnits answers ?roomType=DLX&checkIn=2025-11-02&checkOut=2025-11-03.
func (bc *BookingController) GetRemainingUnits(c *gin.Context) {
	roomType := c.Query("roomType")
	if roomType == "" {
		utils.JSONError(c, http.StatusBadRequest, "roomType is required")
		return
	}
	checkIn, err := parseDate(c.Query("checkIn"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkIn: expected YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(c.Query("checkOut"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkOut: expected YYYY-MM-DD")
		return
	}

	remaining, err := bc.Sync.RemainingUnits(c.Request.Context(), roomType, checkIn, checkOut)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"roomType": roomType, "remaining": remaining})
}

func (bc *BookingController) respondBookingError(c *gin.Context, result services.BookingResult, err error) {
	var transportErr *services.TransportError
	var protocolErr *services.ProtocolError

	switch {
	case errors.Is(err, services.ErrAlreadySent):
		utils.JSONError(c, http.StatusConflict, "booking_already_sent")
	case errors.As(err, &transportErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"success":       false,
			"error":         "transport_failed",
			"detail":        transportErr.Error(),
			"correlationId": result.CorrelationID,
		})
	case errors.As(err, &protocolErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":       false,
			"error":         "rejected_by_pms",
			"detail":        protocolErr.Remote,
			"correlationId": result.CorrelationID,
		})
	default:
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	}
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

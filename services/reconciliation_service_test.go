package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-channel/codemap"
	"hotel-channel/config"
	"hotel-channel/models"
	"hotel-channel/ota"
)

func testChannelConfig() *config.ChannelConfig {
	return &config.ChannelConfig{
		HotelCode:          "H1",
		AmbiguousAsSuccess: true,
	}
}

func newTestEngine(store *storeMock, transport *transportMock) *ReconciliationService {
	mapper := codemap.New(
		map[string]string{"DLX": "EXT"},
		map[string]string{"BAR": "RACK"},
		testLogger(),
	)
	return NewReconciliationService(store, transport, mapper, testChannelConfig(), testLogger())
}

func sampleRequest() BookingRequest {
	return BookingRequest{
		CorrelationID: "T-1",
		RoomCode:      "DLX",
		RatePlanCode:  "BAR",
		CheckIn:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC),
		GuestName:     "Jane Doe",
		GuestEmail:    "jane@example.com",
		TotalAmount:   300,
		CurrencyCode:  "EUR",
		Adults:        2,
	}
}

func TestCreateBookingAcknowledged(t *testing.T) {
	store := newStoreMock()
	transport := &transportMock{}
	engine := newTestEngine(store, transport)

	result, err := engine.CreateBooking(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "T-1", result.CorrelationID)
	assert.Equal(t, models.BookingStateAcknowledged, result.State)

	// Codes on the wire are the mapped external ones.
	require.Len(t, transport.Sent, 1)
	sent := string(transport.Sent[0])
	assert.Contains(t, sent, `RoomTypeCode="EXT"`)
	assert.Contains(t, sent, `RatePlanCode="RACK"`)
	assert.Contains(t, sent, `EchoToken="T-1"`)
	assert.Contains(t, sent, `ResStatus="Commit"`)

	stored, err := store.GetByCorrelationID(context.Background(), "T-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStateAcknowledged, stored.State)
}

func TestCreateBookingGeneratesCorrelationID(t *testing.T) {
	engine := newTestEngine(newStoreMock(), &transportMock{})

	req := sampleRequest()
	req.CorrelationID = ""
	result, err := engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, result.CorrelationID)
}

func TestCreateBookingRemoteErrors(t *testing.T) {
	store := newStoreMock()
	transport := &transportMock{Responses: [][]byte{
		[]byte(`<OTA_HotelResNotifRS><Errors><Error Type="3">room closed</Error></Errors></OTA_HotelResNotifRS>`),
	}}
	engine := newTestEngine(store, transport)

	result, err := engine.CreateBooking(context.Background(), sampleRequest())

	var protocolErr *ProtocolError
	require.ErrorAs(t, err, &protocolErr)
	assert.Contains(t, protocolErr.Remote, "room closed")
	assert.Equal(t, models.BookingStateFailed, result.State)
}

func TestCreateBookingAmbiguousAckWithEcho(t *testing.T) {
	store := newStoreMock()
	transport := &transportMock{Responses: [][]byte{
		[]byte(`<OTA_HotelResNotifRS EchoToken="T-1"></OTA_HotelResNotifRS>`),
	}}
	engine := newTestEngine(store, transport)

	result, err := engine.CreateBooking(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStateAcknowledged, result.State)
}

func TestCreateBookingAmbiguousAckWithoutEchoFails(t *testing.T) {
	store := newStoreMock()
	transport := &transportMock{Responses: [][]byte{
		[]byte(`<OTA_HotelResNotifRS></OTA_HotelResNotifRS>`),
	}}
	engine := newTestEngine(store, transport)

	result, err := engine.CreateBooking(context.Background(), sampleRequest())

	var protocolErr *ProtocolError
	require.ErrorAs(t, err, &protocolErr)
	assert.Equal(t, models.BookingStateFailed, result.State)
}

func TestCreateBookingNeverResends(t *testing.T) {
	store := newStoreMock()
	transport := &transportMock{}
	engine := newTestEngine(store, transport)

	_, err := engine.CreateBooking(context.Background(), sampleRequest())
	require.NoError(t, err)

	_, err = engine.CreateBooking(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrAlreadySent)
	assert.Len(t, transport.Sent, 1)
}

func TestCreateBookingValidation(t *testing.T) {
	engine := newTestEngine(newStoreMock(), &transportMock{})

	req := sampleRequest()
	req.CheckOut = req.CheckIn
	_, err := engine.CreateBooking(context.Background(), req)
	assert.Error(t, err)

	req = sampleRequest()
	req.GuestEmail = ""
	_, err = engine.CreateBooking(context.Background(), req)
	assert.Error(t, err)
}

func confirmation(echo, pmsNumber string) *ota.NotifReportRQ {
	return &ota.NotifReportRQ{
		EchoToken: echo,
		NotifDetails: &ota.NotifDetails{HotelNotifReport: ota.HotelNotifReport{
			HotelReservations: ota.HotelReservations{HotelReservation: []ota.HotelReservation{{
				ResGlobalInfo: &ota.ResGlobalInfo{
					HotelReservationIDs: &ota.HotelReservationIDs{HotelReservationID: []ota.HotelReservationID{{
						ResIDType: "14", ResIDValue: pmsNumber,
					}}},
				},
			}}},
		}},
	}
}

func TestConfirmationFlowEndToEnd(t *testing.T) {
	store := newStoreMock()
	engine := newTestEngine(store, &transportMock{})

	var hookCalls int
	engine.SetConfirmationHook(func(booking *models.ExternalBooking) {
		hookCalls++
		assert.Equal(t, "PMS999", booking.PMSReservationNumber)
	})

	result, err := engine.CreateBooking(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Equal(t, models.BookingStateAcknowledged, result.State)

	require.NoError(t, engine.OnConfirmation(context.Background(), confirmation("T-1", "PMS999")))

	booking, err := engine.GetBookingState(context.Background(), "T-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStateConfirmed, booking.State)
	assert.Equal(t, "PMS999", booking.PMSReservationNumber)
	assert.Equal(t, 1, hookCalls)
}

func TestConfirmationIsIdempotent(t *testing.T) {
	store := newStoreMock()
	engine := newTestEngine(store, &transportMock{})

	var hookCalls int
	engine.SetConfirmationHook(func(*models.ExternalBooking) { hookCalls++ })

	_, err := engine.CreateBooking(context.Background(), sampleRequest())
	require.NoError(t, err)

	require.NoError(t, engine.OnConfirmation(context.Background(), confirmation("T-1", "PMS999")))
	require.NoError(t, engine.OnConfirmation(context.Background(), confirmation("T-1", "PMS999")))

	booking, err := engine.GetBookingState(context.Background(), "T-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStateConfirmed, booking.State)
	// The second delivery is a no-op: side-effects fired exactly once.
	assert.Equal(t, 1, hookCalls)
}

func TestConfirmationForUnknownBookingIsSwallowed(t *testing.T) {
	engine := newTestEngine(newStoreMock(), &transportMock{})

	// Stale delivery: log-and-ack, the webhook must not error.
	assert.NoError(t, engine.OnConfirmation(context.Background(), confirmation("GHOST-1", "PMS1")))
}

func TestConfirmationWithoutEchoTokenIsSwallowed(t *testing.T) {
	engine := newTestEngine(newStoreMock(), &transportMock{})
	assert.NoError(t, engine.OnConfirmation(context.Background(), confirmation("", "PMS1")))
}

func TestCancelBooking(t *testing.T) {
	store := newStoreMock()
	transport := &transportMock{}
	engine := newTestEngine(store, transport)

	_, err := engine.CreateBooking(context.Background(), sampleRequest())
	require.NoError(t, err)

	require.NoError(t, engine.CancelBooking(context.Background(), "T-1", "guest request"))

	booking, err := engine.GetBookingState(context.Background(), "T-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStateCancelled, booking.State)

	require.Len(t, transport.Sent, 2)
	assert.Contains(t, string(transport.Sent[1]), `ResStatus="Cancel"`)
	assert.Contains(t, string(transport.Sent[1]), "guest request")
}

func TestCancelUnknownBooking(t *testing.T) {
	engine := newTestEngine(newStoreMock(), &transportMock{})
	err := engine.CancelBooking(context.Background(), "NOPE", "")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

package ota

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResNotif() *HotelResNotifRQ {
	return &HotelResNotifRQ{
		Xmlns:     Namespace,
		EchoToken: "T-1",
		TimeStamp: "2025-11-01T10:00:00Z",
		Version:   Version,
		ResStatus: "Commit",
		HotelReservations: HotelReservations{HotelReservation: []HotelReservation{{
			RoomStays: RoomStays{RoomStay: []RoomStay{{
				RoomTypes: RoomTypesBlock{RoomType: []RoomTypeRef{{RoomTypeCode: "EXT", NumberOfUnits: 1}}},
				RatePlans: RatePlansBlock{RatePlan: []RatePlanRef{{RatePlanCode: "BAR"}}},
				RoomRates: RoomRates{RoomRate: []RoomRate{{
					RoomTypeCode: "EXT",
					RatePlanCode: "BAR",
					Rates: &RateSpans{Rate: []RateSpan{{
						EffectiveDate: "2025-11-01",
						ExpireDate:    "2025-11-04",
						Base:          &Base{AmountAfterTax: "300.00", CurrencyCode: "EUR"},
					}}},
				}}},
				GuestCounts: GuestCounts{GuestCount: []GuestCount{{AgeQualifyingCode: "10", Count: 2}}},
				TimeSpan:    TimeSpan{Start: "2025-11-01", End: "2025-11-04"},
				Total:       &Total{AmountAfterTax: "300.00", CurrencyCode: "EUR"},
			}}},
			Services: &ResServices{Service: []ResService{{
				ServiceInventoryCode: "GUEST_CONTACT",
				ServiceDetails: &ServiceDetails{CustomerInfo: &CustomerInfo{
					PersonName: PersonName{GivenName: "Jane", Surname: "Doe"},
					Telephone:  &Telephone{PhoneNumber: "+49123456"},
					Email:      "jane@example.com",
					Address:    &Address{CountryName: CountryName{Code: "DE"}},
				}},
			}}},
			ResGlobalInfo: &ResGlobalInfo{
				HotelReservationIDs: &HotelReservationIDs{HotelReservationID: []HotelReservationID{{
					ResIDType: "14", ResIDValue: "T-1", ResIDSource: "hotel-channel",
				}}},
			},
		}}},
	}
}

func TestResNotifRoundTrip(t *testing.T) {
	encoded, err := Encode(MsgResNotif, sampleResNotif())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(encoded), "<?xml"))

	decoded, err := DecodeResNotif(encoded)
	require.NoError(t, err)

	assert.Equal(t, "T-1", decoded.EchoToken)
	assert.Equal(t, "Commit", decoded.ResStatus)

	stay := decoded.HotelReservations.HotelReservation[0].RoomStays.RoomStay[0]
	assert.Equal(t, "EXT", stay.RoomTypes.RoomType[0].RoomTypeCode)
	assert.Equal(t, "BAR", stay.RatePlans.RatePlan[0].RatePlanCode)
	assert.Equal(t, "2025-11-01", stay.TimeSpan.Start)
	assert.Equal(t, "2025-11-04", stay.TimeSpan.End)
	assert.Equal(t, 2, stay.GuestCounts.GuestCount[0].Count)
	assert.Equal(t, "300.00", stay.Total.AmountAfterTax)
	assert.Equal(t, "EUR", stay.Total.CurrencyCode)

	contact := decoded.HotelReservations.HotelReservation[0].Services.Service[0].ServiceDetails.CustomerInfo
	assert.Equal(t, "Jane", contact.PersonName.GivenName)
	assert.Equal(t, "Doe", contact.PersonName.Surname)
	assert.Equal(t, "jane@example.com", contact.Email)
	assert.Equal(t, "+49123456", contact.Telephone.PhoneNumber)
	assert.Equal(t, "DE", contact.Address.CountryName.Code)
}

func TestEncodeRejectsMismatchedType(t *testing.T) {
	_, err := Encode(MsgAvailNotif, sampleResNotif())
	assert.Error(t, err)
}

func TestDecodeMalformedReturnsParseError(t *testing.T) {
	_, err := DecodeResNotif([]byte("this is not xml at all <<<"))
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Fragment, "this is not xml")
}

func TestDecodeWrongRootReturnsParseError(t *testing.T) {
	_, err := DecodeResNotif([]byte(`<OTA_HotelAvailNotifRQ/>`))
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeToleratesMissingNamespace(t *testing.T) {
	// Same document, once with the OTA namespace and once without.
	withNS := `<OTA_HotelInvCountNotifRQ xmlns="http://www.opentravel.org/OTA/2003/05" EchoToken="e1">
		<Inventories HotelCode="H1">
			<Inventory>
				<StatusApplicationControl Start="2025-11-01" End="2025-11-02" InvTypeCode="STD"/>
				<InvCounts><InvCount CountType="2" Count="7"/></InvCounts>
			</Inventory>
		</Inventories>
	</OTA_HotelInvCountNotifRQ>`
	withoutNS := strings.Replace(withNS, ` xmlns="http://www.opentravel.org/OTA/2003/05"`, "", 1)

	for _, doc := range []string{withNS, withoutNS} {
		rq, err := DecodeInvCountNotif([]byte(doc))
		require.NoError(t, err)
		require.Len(t, rq.Inventories.Inventory, 1)
		assert.Equal(t, "STD", rq.Inventories.Inventory[0].StatusApplicationControl.InvTypeCode)
		assert.Equal(t, 7, rq.Inventories.Inventory[0].InvCounts.InvCount[0].Count)
	}
}

func TestReadEnvelope(t *testing.T) {
	env, err := ReadEnvelope([]byte(`<?xml version="1.0"?>
		<OTA_HotelAvailNotifRQ userid="pms" password="s3cret"><AvailStatusMessages/></OTA_HotelAvailNotifRQ>`))
	require.NoError(t, err)
	assert.Equal(t, MsgAvailNotif, env.Type)
	assert.Equal(t, "pms", env.UserID)
	assert.Equal(t, "s3cret", env.Password)

	_, err = ReadEnvelope([]byte("garbage"))
	assert.Error(t, err)
}

func TestNotifReportReservationID(t *testing.T) {
	doc := `<OTA_NotifReportRQ EchoToken="T-1">
		<Success/>
		<NotifDetails>
			<HotelNotifReport>
				<HotelReservations>
					<HotelReservation>
						<RoomStays/>
						<ResGlobalInfo>
							<HotelReservationIDs>
								<HotelReservationID ResID_Type="14" ResID_Value="PMS999" ResID_Source="pms"/>
							</HotelReservationIDs>
						</ResGlobalInfo>
					</HotelReservation>
				</HotelReservations>
			</HotelNotifReport>
		</NotifDetails>
	</OTA_NotifReportRQ>`

	rq, err := DecodeNotifReport([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "T-1", rq.EchoToken)
	assert.Equal(t, "PMS999", rq.ReservationID())
}

func TestMessageTypeForRoot(t *testing.T) {
	assert.Equal(t, MsgInvCountNotif, MessageTypeForRoot("OTA_HotelInvCountNotifRQ"))
	assert.Equal(t, MsgNotifReport, MessageTypeForRoot("OTA_NotifReportRQ"))
	assert.Equal(t, MsgUnknown, MessageTypeForRoot("SomethingElse"))
}

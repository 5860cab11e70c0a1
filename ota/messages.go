package ota

import "encoding/xml"

// Namespace is the OTA 2003/05 namespace every outbound document declares.
// Inbound documents are matched by local element name only, because real-world
// senders are inconsistent about declaring it.
const Namespace = "http://www.opentravel.org/OTA/2003/05"

const Version = "1.0"

// ---------------------------------------------------------------------------
// Shared envelope pieces
// ---------------------------------------------------------------------------

type Success struct{}

type Warning struct {
	Type      string `xml:"Type,attr,omitempty"`
	ShortText string `xml:"ShortText,attr,omitempty"`
	Text      string `xml:",chardata"`
}

type Warnings struct {
	Warnings []Warning `xml:"Warning"`
}

type ErrorElem struct {
	Type      string `xml:"Type,attr"`
	Code      string `xml:"Code,attr,omitempty"`
	ShortText string `xml:"ShortText,attr,omitempty"`
	Text      string `xml:",chardata"`
}

type Errors struct {
	Errors []ErrorElem `xml:"Error"`
}

// ---------------------------------------------------------------------------
// OTA_HotelInvCountNotifRQ — inventory count push
// ---------------------------------------------------------------------------

type HotelInvCountNotifRQ struct {
	XMLName   xml.Name `xml:"OTA_HotelInvCountNotifRQ"`
	Xmlns     string   `xml:"xmlns,attr,omitempty"`
	EchoToken string   `xml:"EchoToken,attr,omitempty"`
	TimeStamp string   `xml:"TimeStamp,attr,omitempty"`
	Version   string   `xml:"Version,attr,omitempty"`
	UserID    string   `xml:"userid,attr,omitempty"`
	Password  string   `xml:"password,attr,omitempty"`

	Inventories Inventories `xml:"Inventories"`
}

type Inventories struct {
	HotelCode string      `xml:"HotelCode,attr,omitempty"`
	Inventory []Inventory `xml:"Inventory"`
}

type Inventory struct {
	StatusApplicationControl StatusApplicationControl `xml:"StatusApplicationControl"`
	InvCounts                *InvCounts               `xml:"InvCounts,omitempty"`
}

type InvCounts struct {
	InvCount []InvCount `xml:"InvCount"`
}

type InvCount struct {
	// CountType 2 is "definite available" in the OTA code table; senders we
	// integrate with only ever use that one.
	CountType string `xml:"CountType,attr,omitempty"`
	Count     int    `xml:"Count,attr"`
}

// StatusApplicationControl scopes a message line to a date range and a
// room-type / rate-plan pair. Start/End are inclusive calendar dates.
type StatusApplicationControl struct {
	Start        string `xml:"Start,attr"`
	End          string `xml:"End,attr"`
	InvTypeCode  string `xml:"InvTypeCode,attr,omitempty"`
	RatePlanCode string `xml:"RatePlanCode,attr,omitempty"`
	MealPlanCode string `xml:"MealPlanCode,attr,omitempty"`
}

// ---------------------------------------------------------------------------
// OTA_HotelAvailNotifRQ — availability / restriction push
// ---------------------------------------------------------------------------

type HotelAvailNotifRQ struct {
	XMLName   xml.Name `xml:"OTA_HotelAvailNotifRQ"`
	Xmlns     string   `xml:"xmlns,attr,omitempty"`
	EchoToken string   `xml:"EchoToken,attr,omitempty"`
	TimeStamp string   `xml:"TimeStamp,attr,omitempty"`
	Version   string   `xml:"Version,attr,omitempty"`
	UserID    string   `xml:"userid,attr,omitempty"`
	Password  string   `xml:"password,attr,omitempty"`

	AvailStatusMessages AvailStatusMessages `xml:"AvailStatusMessages"`
}

type AvailStatusMessages struct {
	HotelCode          string               `xml:"HotelCode,attr,omitempty"`
	AvailStatusMessage []AvailStatusMessage `xml:"AvailStatusMessage"`
}

type AvailStatusMessage struct {
	BookingLimit             *int                     `xml:"BookingLimit,attr,omitempty"`
	StatusApplicationControl StatusApplicationControl `xml:"StatusApplicationControl"`
	LengthsOfStay            *LengthsOfStay           `xml:"LengthsOfStay,omitempty"`
	RestrictionStatus        *RestrictionStatus       `xml:"RestrictionStatus,omitempty"`
}

type LengthsOfStay struct {
	LengthOfStay []LengthOfStay `xml:"LengthOfStay"`
}

type LengthOfStay struct {
	Time              int    `xml:"Time,attr"`
	TimeUnit          string `xml:"TimeUnit,attr,omitempty"`
	MinMaxMessageType string `xml:"MinMaxMessageType,attr"`
}

type RestrictionStatus struct {
	Restriction string `xml:"Restriction,attr,omitempty"`
	Status      string `xml:"Status,attr,omitempty"`
}

// ---------------------------------------------------------------------------
// OTA_HotelRatePlanNotifRQ — rate plan push
// ---------------------------------------------------------------------------

type HotelRatePlanNotifRQ struct {
	XMLName   xml.Name `xml:"OTA_HotelRatePlanNotifRQ"`
	Xmlns     string   `xml:"xmlns,attr,omitempty"`
	EchoToken string   `xml:"EchoToken,attr,omitempty"`
	TimeStamp string   `xml:"TimeStamp,attr,omitempty"`
	Version   string   `xml:"Version,attr,omitempty"`
	UserID    string   `xml:"userid,attr,omitempty"`
	Password  string   `xml:"password,attr,omitempty"`

	RatePlans RatePlansNotif `xml:"RatePlans"`
}

type RatePlansNotif struct {
	HotelCode string         `xml:"HotelCode,attr,omitempty"`
	RatePlan  []RatePlanItem `xml:"RatePlan"`
}

type RatePlanItem struct {
	RatePlanCode string     `xml:"RatePlanCode,attr"`
	Start        string     `xml:"Start,attr,omitempty"`
	End          string     `xml:"End,attr,omitempty"`
	CurrencyCode string     `xml:"CurrencyCode,attr,omitempty"`
	Rates        *RateLines `xml:"Rates,omitempty"`
}

type RateLines struct {
	Rate []RateLine `xml:"Rate"`
}

type RateLine struct {
	InvTypeCode     string           `xml:"InvTypeCode,attr,omitempty"`
	Start           string           `xml:"Start,attr,omitempty"`
	End             string           `xml:"End,attr,omitempty"`
	BaseByGuestAmts *BaseByGuestAmts `xml:"BaseByGuestAmts,omitempty"`
}

type BaseByGuestAmts struct {
	BaseByGuestAmt []BaseByGuestAmt `xml:"BaseByGuestAmt"`
}

type BaseByGuestAmt struct {
	NumberOfGuests int    `xml:"NumberOfGuests,attr,omitempty"`
	AmountAfterTax string `xml:"AmountAfterTax,attr"`
	CurrencyCode   string `xml:"CurrencyCode,attr,omitempty"`
}

// ---------------------------------------------------------------------------
// OTA_HotelResNotifRQ — booking create / cancel
// ---------------------------------------------------------------------------

type HotelResNotifRQ struct {
	XMLName   xml.Name `xml:"OTA_HotelResNotifRQ"`
	Xmlns     string   `xml:"xmlns,attr,omitempty"`
	EchoToken string   `xml:"EchoToken,attr,omitempty"`
	TimeStamp string   `xml:"TimeStamp,attr,omitempty"`
	Version   string   `xml:"Version,attr,omitempty"`
	ResStatus string   `xml:"ResStatus,attr,omitempty"`
	UserID    string   `xml:"userid,attr,omitempty"`
	Password  string   `xml:"password,attr,omitempty"`

	HotelReservations HotelReservations `xml:"HotelReservations"`
}

type HotelReservations struct {
	HotelReservation []HotelReservation `xml:"HotelReservation"`
}

type HotelReservation struct {
	CreateDateTime string         `xml:"CreateDateTime,attr,omitempty"`
	RoomStays      RoomStays      `xml:"RoomStays"`
	Services       *ResServices   `xml:"Services,omitempty"`
	ResGlobalInfo  *ResGlobalInfo `xml:"ResGlobalInfo,omitempty"`
}

type RoomStays struct {
	RoomStay []RoomStay `xml:"RoomStay"`
}

type RoomStay struct {
	RoomTypes         RoomTypesBlock     `xml:"RoomTypes"`
	RatePlans         RatePlansBlock     `xml:"RatePlans"`
	RoomRates         RoomRates          `xml:"RoomRates"`
	GuestCounts       GuestCounts        `xml:"GuestCounts"`
	TimeSpan          TimeSpan           `xml:"TimeSpan"`
	Total             *Total             `xml:"Total,omitempty"`
	BasicPropertyInfo *BasicPropertyInfo `xml:"BasicPropertyInfo,omitempty"`
}

type RoomTypesBlock struct {
	RoomType []RoomTypeRef `xml:"RoomType"`
}

type RoomTypeRef struct {
	RoomTypeCode  string `xml:"RoomTypeCode,attr"`
	NumberOfUnits int    `xml:"NumberOfUnits,attr,omitempty"`
}

type RatePlansBlock struct {
	RatePlan []RatePlanRef `xml:"RatePlan"`
}

type RatePlanRef struct {
	RatePlanCode string `xml:"RatePlanCode,attr"`
}

type RoomRates struct {
	RoomRate []RoomRate `xml:"RoomRate"`
}

type RoomRate struct {
	RoomTypeCode string     `xml:"RoomTypeCode,attr,omitempty"`
	RatePlanCode string     `xml:"RatePlanCode,attr,omitempty"`
	Rates        *RateSpans `xml:"Rates,omitempty"`
}

type RateSpans struct {
	Rate []RateSpan `xml:"Rate"`
}

type RateSpan struct {
	EffectiveDate string `xml:"EffectiveDate,attr,omitempty"`
	ExpireDate    string `xml:"ExpireDate,attr,omitempty"`
	Base          *Base  `xml:"Base,omitempty"`
}

type Base struct {
	AmountAfterTax string `xml:"AmountAfterTax,attr"`
	CurrencyCode   string `xml:"CurrencyCode,attr,omitempty"`
}

type GuestCounts struct {
	GuestCount []GuestCount `xml:"GuestCount"`
}

// AgeQualifyingCode: 10 = adult, 8 = child (OTA code table AQC).
type GuestCount struct {
	AgeQualifyingCode string `xml:"AgeQualifyingCode,attr"`
	Count             int    `xml:"Count,attr"`
}

type TimeSpan struct {
	Start string `xml:"Start,attr"`
	End   string `xml:"End,attr"`
}

type Total struct {
	AmountAfterTax string `xml:"AmountAfterTax,attr"`
	CurrencyCode   string `xml:"CurrencyCode,attr,omitempty"`
}

type BasicPropertyInfo struct {
	HotelCode string `xml:"HotelCode,attr"`
}

// Services carries guest contact details as a structured sub-service; the
// remote schema validator insists on this exact placement.
type ResServices struct {
	Service []ResService `xml:"Service"`
}

type ResService struct {
	ServiceInventoryCode string          `xml:"ServiceInventoryCode,attr,omitempty"`
	ServiceDetails       *ServiceDetails `xml:"ServiceDetails,omitempty"`
}

type ServiceDetails struct {
	CustomerInfo *CustomerInfo `xml:"CustomerInfo,omitempty"`
	Comments     *Comments     `xml:"Comments,omitempty"`
}

type CustomerInfo struct {
	PersonName PersonName `xml:"PersonName"`
	Telephone  *Telephone `xml:"Telephone,omitempty"`
	Email      string     `xml:"Email,omitempty"`
	Address    *Address   `xml:"Address,omitempty"`
}

type PersonName struct {
	GivenName string `xml:"GivenName,omitempty"`
	Surname   string `xml:"Surname,omitempty"`
}

type Telephone struct {
	PhoneNumber string `xml:"PhoneNumber,attr"`
}

type Address struct {
	CountryName CountryName `xml:"CountryName"`
}

type CountryName struct {
	Code string `xml:"Code,attr,omitempty"`
	Name string `xml:",chardata"`
}

type Comments struct {
	Comment []Comment `xml:"Comment"`
}

type Comment struct {
	Name string `xml:"Name,attr,omitempty"`
	Text string `xml:"Text"`
}

type ResGlobalInfo struct {
	DepositPayments     *DepositPayments     `xml:"DepositPayments,omitempty"`
	Comments            *Comments            `xml:"Comments,omitempty"`
	HotelReservationIDs *HotelReservationIDs `xml:"HotelReservationIDs,omitempty"`
}

type DepositPayments struct {
	GuaranteePayment []GuaranteePayment `xml:"GuaranteePayment"`
}

type GuaranteePayment struct {
	AmountPercent AmountPercent `xml:"AmountPercent"`
}

type AmountPercent struct {
	Amount       string `xml:"Amount,attr"`
	CurrencyCode string `xml:"CurrencyCode,attr,omitempty"`
}

type HotelReservationIDs struct {
	HotelReservationID []HotelReservationID `xml:"HotelReservationID"`
}

// ResID_Type 14 is "reservation" in the OTA UIT table; ResID_Source names the
// system that issued the value.
type HotelReservationID struct {
	ResIDType   string `xml:"ResID_Type,attr,omitempty"`
	ResIDValue  string `xml:"ResID_Value,attr"`
	ResIDSource string `xml:"ResID_Source,attr,omitempty"`
}

// ---------------------------------------------------------------------------
// OTA_NotifReportRQ — asynchronous booking confirmation
// ---------------------------------------------------------------------------

type NotifReportRQ struct {
	XMLName   xml.Name `xml:"OTA_NotifReportRQ"`
	Xmlns     string   `xml:"xmlns,attr,omitempty"`
	EchoToken string   `xml:"EchoToken,attr,omitempty"`
	TimeStamp string   `xml:"TimeStamp,attr,omitempty"`
	Version   string   `xml:"Version,attr,omitempty"`
	UserID    string   `xml:"userid,attr,omitempty"`
	Password  string   `xml:"password,attr,omitempty"`

	Success      *Success      `xml:"Success,omitempty"`
	Errors       *Errors       `xml:"Errors,omitempty"`
	NotifDetails *NotifDetails `xml:"NotifDetails,omitempty"`
}

type NotifDetails struct {
	HotelNotifReport HotelNotifReport `xml:"HotelNotifReport"`
}

type HotelNotifReport struct {
	HotelReservations HotelReservations `xml:"HotelReservations"`
}

// ReservationID walks the nested reservation-ID structure and returns the
// first PMS-issued reservation number, or "".
func (rq *NotifReportRQ) ReservationID() string {
	if rq.NotifDetails == nil {
		return ""
	}
	for _, res := range rq.NotifDetails.HotelNotifReport.HotelReservations.HotelReservation {
		if res.ResGlobalInfo == nil || res.ResGlobalInfo.HotelReservationIDs == nil {
			continue
		}
		for _, id := range res.ResGlobalInfo.HotelReservationIDs.HotelReservationID {
			if id.ResIDValue != "" {
				return id.ResIDValue
			}
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Response envelopes (one per family; identical shape)
// ---------------------------------------------------------------------------

type HotelInvCountNotifRS struct {
	XMLName xml.Name `xml:"OTA_HotelInvCountNotifRS"`
	ResponseEnvelope
}

type HotelAvailNotifRS struct {
	XMLName xml.Name `xml:"OTA_HotelAvailNotifRS"`
	ResponseEnvelope
}

type HotelRatePlanNotifRS struct {
	XMLName xml.Name `xml:"OTA_HotelRatePlanNotifRS"`
	ResponseEnvelope
}

type HotelResNotifRS struct {
	XMLName xml.Name `xml:"OTA_HotelResNotifRS"`
	ResponseEnvelope
}

type NotifReportRS struct {
	XMLName xml.Name `xml:"OTA_NotifReportRS"`
	ResponseEnvelope
}

type ResponseEnvelope struct {
	Xmlns     string    `xml:"xmlns,attr,omitempty"`
	EchoToken string    `xml:"EchoToken,attr,omitempty"`
	TimeStamp string    `xml:"TimeStamp,attr,omitempty"`
	Version   string    `xml:"Version,attr,omitempty"`
	Success   *Success  `xml:"Success,omitempty"`
	Warnings  *Warnings `xml:"Warnings,omitempty"`
	Errors    *Errors   `xml:"Errors,omitempty"`
}

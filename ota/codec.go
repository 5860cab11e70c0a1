package ota

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// MessageType is the closed set of OTA message families this adapter speaks.
type MessageType int

const (
	MsgUnknown MessageType = iota
	MsgInvCountNotif
	MsgAvailNotif
	MsgRatePlanNotif
	MsgResNotif
	MsgNotifReport
)

func (t MessageType) String() string {
	switch t {
	case MsgInvCountNotif:
		return "OTA_HotelInvCountNotifRQ"
	case MsgAvailNotif:
		return "OTA_HotelAvailNotifRQ"
	case MsgRatePlanNotif:
		return "OTA_HotelRatePlanNotifRQ"
	case MsgResNotif:
		return "OTA_HotelResNotifRQ"
	case MsgNotifReport:
		return "OTA_NotifReportRQ"
	default:
		return "unknown"
	}
}

// MessageTypeForRoot maps a root element local name to its message type.
func MessageTypeForRoot(root string) MessageType {
	switch root {
	case "OTA_HotelInvCountNotifRQ":
		return MsgInvCountNotif
	case "OTA_HotelAvailNotifRQ":
		return MsgAvailNotif
	case "OTA_HotelRatePlanNotifRQ":
		return MsgRatePlanNotif
	case "OTA_HotelResNotifRQ":
		return MsgResNotif
	case "OTA_NotifReportRQ":
		return MsgNotifReport
	default:
		return MsgUnknown
	}
}

// ParseError reports malformed or schema-unexpected XML. It carries the
// offending fragment so operators can see what the sender actually produced.
type ParseError struct {
	MessageType MessageType
	Fragment    string
	Err         error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ota: cannot parse %s: %v (fragment: %q)", e.MessageType, e.Err, e.Fragment)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(t MessageType, data []byte, err error) *ParseError {
	frag := strings.TrimSpace(string(data))
	if len(frag) > 120 {
		frag = frag[:120] + "..."
	}
	return &ParseError{MessageType: t, Fragment: frag, Err: err}
}

// Envelope is the part of an inbound document the receiver needs before it
// knows (or trusts) the payload: the root element name and the credentials
// some senders embed as root attributes instead of HTTP headers.
type Envelope struct {
	Root     string
	Type     MessageType
	UserID   string
	Password string
}

// ReadEnvelope scans up to the first start element. Namespace declarations on
// the root are ignored; matching is by local name, which is the tolerant
// fallback for senders that omit the OTA namespace.
func ReadEnvelope(data []byte) (Envelope, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return Envelope{}, newParseError(MsgUnknown, data, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		env := Envelope{Root: start.Name.Local, Type: MessageTypeForRoot(start.Name.Local)}
		for _, attr := range start.Attr {
			switch strings.ToLower(attr.Name.Local) {
			case "userid":
				env.UserID = attr.Value
			case "password":
				env.Password = attr.Value
			}
		}
		return env, nil
	}
}

// Decode parses data as the given message family. The returned value is the
// matching *...RQ struct; a mismatched root element or malformed XML yields a
// *ParseError, never a partially-filled record.
func Decode(data []byte, t MessageType) (any, error) {
	switch t {
	case MsgInvCountNotif:
		return DecodeInvCountNotif(data)
	case MsgAvailNotif:
		return DecodeAvailNotif(data)
	case MsgRatePlanNotif:
		return DecodeRatePlanNotif(data)
	case MsgResNotif:
		return DecodeResNotif(data)
	case MsgNotifReport:
		return DecodeNotifReport(data)
	default:
		return nil, newParseError(t, data, fmt.Errorf("unsupported message type"))
	}
}

func DecodeInvCountNotif(data []byte) (*HotelInvCountNotifRQ, error) {
	var rq HotelInvCountNotifRQ
	if err := xml.Unmarshal(data, &rq); err != nil {
		return nil, newParseError(MsgInvCountNotif, data, err)
	}
	return &rq, nil
}

func DecodeAvailNotif(data []byte) (*HotelAvailNotifRQ, error) {
	var rq HotelAvailNotifRQ
	if err := xml.Unmarshal(data, &rq); err != nil {
		return nil, newParseError(MsgAvailNotif, data, err)
	}
	return &rq, nil
}

func DecodeRatePlanNotif(data []byte) (*HotelRatePlanNotifRQ, error) {
	var rq HotelRatePlanNotifRQ
	if err := xml.Unmarshal(data, &rq); err != nil {
		return nil, newParseError(MsgRatePlanNotif, data, err)
	}
	return &rq, nil
}

func DecodeResNotif(data []byte) (*HotelResNotifRQ, error) {
	var rq HotelResNotifRQ
	if err := xml.Unmarshal(data, &rq); err != nil {
		return nil, newParseError(MsgResNotif, data, err)
	}
	return &rq, nil
}

func DecodeNotifReport(data []byte) (*NotifReportRQ, error) {
	var rq NotifReportRQ
	if err := xml.Unmarshal(data, &rq); err != nil {
		return nil, newParseError(MsgNotifReport, data, err)
	}
	return &rq, nil
}

// Encode marshals v with the XML declaration prepended. v must be the struct
// matching t; the pairing is checked so a dispatch bug surfaces as an error
// instead of a schema rejection on the remote side.
func Encode(t MessageType, v any) ([]byte, error) {
	ok := false
	switch t {
	case MsgInvCountNotif:
		_, ok = v.(*HotelInvCountNotifRQ)
	case MsgAvailNotif:
		_, ok = v.(*HotelAvailNotifRQ)
	case MsgRatePlanNotif:
		_, ok = v.(*HotelRatePlanNotifRQ)
	case MsgResNotif:
		_, ok = v.(*HotelResNotifRQ)
	case MsgNotifReport:
		_, ok = v.(*NotifReportRQ)
	}
	if !ok {
		return nil, fmt.Errorf("ota: value %T does not match message type %s", v, t)
	}
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("ota: encode %s: %w", t, err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Timestamp renders t in the format OTA documents carry.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

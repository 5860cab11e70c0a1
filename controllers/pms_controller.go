// controllers/pms_controller.go
package controllers

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"hotel-channel/config"
	"hotel-channel/ota"
	"hotel-channel/utils"
)

// SyncProcessor handles pushed inventory/availability/rate documents.
type SyncProcessor interface {
	ApplyInvCountNotif(ctx context.Context, rq *ota.HotelInvCountNotifRQ) error
	ApplyAvailNotif(ctx context.Context, rq *ota.HotelAvailNotifRQ) error
	ApplyRatePlanNotif(ctx context.Context, rq *ota.HotelRatePlanNotifRQ) error
}

// ConfirmationProcessor handles asynchronous booking confirmations.
type ConfirmationProcessor interface {
	OnConfirmation(ctx context.Context, notif *ota.NotifReportRQ) error
}

// PMSController is the inbound webhook boundary. Whatever happens inside, the
// response is always well-formed XML: the remote system retries on anything
// it cannot parse, so a bare 500 would only multiply traffic.
type PMSController struct {
	Sync     SyncProcessor
	Bookings ConfirmationProcessor
	Cfg      *config.ChannelConfig
	Log      *logrus.Logger
}

func NewPMSController(sync SyncProcessor, bookings ConfirmationProcessor, cfg *config.ChannelConfig, log *logrus.Logger) *PMSController {
	return &PMSController{Sync: sync, Bookings: bookings, Cfg: cfg, Log: log}
}

// Receive is the single entry point for every pushed OTA document. The
// message family is picked by root element name, so all /pms/* routes can
// share it.
func (pc *PMSController) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.XMLError(c, http.StatusBadRequest, "1", "unreadable request body")
		return
	}

	env, envErr := ota.ReadEnvelope(body)

	// Step 1: authentication. Header credentials first, then the
	// userid/password attributes some senders embed on the XML root.
	if !pc.authenticated(c, env) {
		pc.Log.WithField("remote", c.ClientIP()).Warn("webhook authentication failed")
		utils.XMLError(c, http.StatusUnauthorized, "4", "authentication failed")
		return
	}

	if envErr != nil {
		utils.XMLError(c, http.StatusBadRequest, "1", "malformed XML")
		return
	}
	if env.Type == ota.MsgUnknown {
		utils.XMLError(c, http.StatusBadRequest, "2", "unsupported message "+env.Root)
		return
	}

	// Step 2: parse.
	decoded, err := ota.Decode(body, env.Type)
	if err != nil {
		pc.Log.WithField("message_type", env.Type.String()).WithError(err).Warn("webhook parse failed")
		utils.XMLError(c, http.StatusBadRequest, "1", "malformed "+env.Root)
		return
	}

	// Step 3: dispatch. Processing failures still get an in-protocol
	// error envelope; the sender redelivers under at-least-once semantics.
	echo, err := pc.dispatch(c.Request.Context(), env.Type, decoded)
	if err != nil {
		pc.Log.WithField("message_type", env.Type.String()).WithError(err).Error("webhook processing failed")
		pc.ack(c, env.Type, echo, err.Error())
		return
	}

	// Step 4: acknowledge.
	pc.ack(c, env.Type, echo, "")
}

func (pc *PMSController) dispatch(ctx context.Context, t ota.MessageType, decoded any) (string, error) {
	switch rq := decoded.(type) {
	case *ota.HotelInvCountNotifRQ:
		return rq.EchoToken, pc.Sync.ApplyInvCountNotif(ctx, rq)
	case *ota.HotelAvailNotifRQ:
		return rq.EchoToken, pc.Sync.ApplyAvailNotif(ctx, rq)
	case *ota.HotelRatePlanNotifRQ:
		return rq.EchoToken, pc.Sync.ApplyRatePlanNotif(ctx, rq)
	case *ota.NotifReportRQ:
		return rq.EchoToken, pc.Bookings.OnConfirmation(ctx, rq)
	default:
		return "", &ota.ParseError{MessageType: t, Err: errUnsupported}
	}
}

var errUnsupported = errorString("unsupported message type")

type errorString string

func (e errorString) Error() string { return string(e) }

// authenticated tries the Authorization header, then the embedded XML
// attributes. Either one matching is enough.
func (pc *PMSController) authenticated(c *gin.Context, env ota.Envelope) bool {
	if user, pass, ok := basicAuth(c.GetHeader("Authorization")); ok {
		if pc.credentialsMatch(user, pass) {
			return true
		}
	}
	if env.UserID != "" || env.Password != "" {
		if pc.credentialsMatch(env.UserID, env.Password) {
			return true
		}
	}
	return false
}

func (pc *PMSController) credentialsMatch(user, pass string) bool {
	if subtle.ConstantTimeCompare([]byte(user), []byte(pc.Cfg.InboundUser)) != 1 {
		return false
	}
	if pc.Cfg.InboundPassHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(pc.Cfg.InboundPassHash), []byte(pass)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(pass), []byte(pc.Cfg.InboundPass)) == 1
}

func basicAuth(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	user, pass, found := strings.Cut(string(raw), ":")
	if !found {
		return "", "", false
	}
	return user, pass, true
}

// ack writes the message-type-specific response envelope with a fresh
// TimeStamp: <Success/> when errText is empty, <Errors> otherwise. Processing
// errors still answer 200 per the upstream contract.
func (pc *PMSController) ack(c *gin.Context, t ota.MessageType, echo, errText string) {
	envelope := ota.ResponseEnvelope{
		Xmlns:     ota.Namespace,
		EchoToken: echo,
		TimeStamp: ota.Timestamp(time.Now()),
		Version:   ota.Version,
	}
	if errText == "" {
		envelope.Success = &ota.Success{}
	} else {
		envelope.Errors = &ota.Errors{Errors: []ota.ErrorElem{{Type: "3", Text: errText}}}
	}

	var body any
	switch t {
	case ota.MsgInvCountNotif:
		body = ota.HotelInvCountNotifRS{ResponseEnvelope: envelope}
	case ota.MsgAvailNotif:
		body = ota.HotelAvailNotifRS{ResponseEnvelope: envelope}
	case ota.MsgRatePlanNotif:
		body = ota.HotelRatePlanNotifRS{ResponseEnvelope: envelope}
	case ota.MsgResNotif:
		body = ota.HotelResNotifRS{ResponseEnvelope: envelope}
	default:
		body = ota.NotifReportRS{ResponseEnvelope: envelope}
	}
	c.XML(http.StatusOK, body)
}

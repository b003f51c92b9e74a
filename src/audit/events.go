package audit

import (
	"github.com/0xPetra/zuzagorauth/pkg/utilities"
	"github.com/0xPetra/zuzagorauth/pkg/utilities/timeutil"
)

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// LoginEvent is published for every authentication attempt. Nothing in it
// identifies the attendee; reasons and ticket types are enough for an
// operator to spot replay storms or misconfigured directories.
type LoginEvent struct {
	RequestID   string           `json:"request_id"`
	Outcome     string           `json:"outcome"`
	Reasons     []string         `json:"reasons,omitempty"`
	TicketTypes []string         `json:"ticket_types,omitempty"`
	At          timeutil.TimeUTC `json:"at"`
}

func (e LoginEvent) Serialize() ([]byte, error) {
	return utilities.Serialize[LoginEvent](e)
}

// Recorder accepts login events. Record must not block request handling.
type Recorder interface {
	Record(e LoginEvent)
}

// NopRecorder drops events; used when no broker is configured.
type NopRecorder struct{}

func (NopRecorder) Record(LoginEvent) {}

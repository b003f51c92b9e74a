package auth

import (
	"fmt"
	"net/http"

	"github.com/0xPetra/zuzagorauth/pkg/reasoncodes"
	"github.com/0xPetra/zuzagorauth/src/tickets"
	"github.com/0xPetra/zuzagorauth/src/zkp"
)

// AuthenticateResponse is the success body: everything the client needs to
// build the `<returnUrl>?sso=<encodedPayload>&sig=<sig>` redirect.
type AuthenticateResponse struct {
	AttendeeEmail  string `json:"attendeeEmail"`
	EncodedPayload string `json:"encodedPayload"`
	Sig            string `json:"sig"`
	Status         int    `json:"status"`
}

// Rejection is one proof's terminal failure.
type Rejection struct {
	Index   int                    `json:"index"`
	Code    reasoncodes.ReasonCode `json:"code"`
	Message string                 `json:"error"`
	Status  int                    `json:"status"`
}

// Outcome aggregates a batch: either at least one accepted claim and a
// signed response, or only rejections.
type Outcome struct {
	Response    *AuthenticateResponse
	Rejections  []Rejection
	TicketTypes []tickets.TicketType
}

// Status picks the aggregate HTTP status for a fully rejected batch.
// Authentication-class failures dominate input-class ones.
func (o Outcome) Status() int {
	status := http.StatusBadRequest
	for _, r := range o.Rejections {
		if r.Status == http.StatusUnauthorized {
			status = http.StatusUnauthorized
		}
	}
	return status
}

// RequestError aborts the whole request before (or instead of) per-proof
// processing: no nonce, empty batch, signing misconfiguration.
type RequestError struct {
	Status  int
	Code    reasoncodes.ReasonCode
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// candidate is a proof that has passed every check and is waiting for the
// all-or-nothing mutation phase.
type candidate struct {
	claim      zkp.Claim
	ticketType tickets.TicketType
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/0xPetra/zuzagorauth/pkg/logger"
	"github.com/0xPetra/zuzagorauth/pkg/reasoncodes"
	"github.com/0xPetra/zuzagorauth/pkg/utilities/timeutil"
	"github.com/0xPetra/zuzagorauth/src/audit"
	"github.com/0xPetra/zuzagorauth/src/nullifier"
	"github.com/0xPetra/zuzagorauth/src/session"
	"github.com/0xPetra/zuzagorauth/src/sso"
	"github.com/0xPetra/zuzagorauth/src/tickets"
	"github.com/0xPetra/zuzagorauth/src/zkp"
)

// Service runs the verification-and-signing pipeline. Per proof:
// type tag, deserialize, verify, watermark binding, nullifier presence,
// event policy, ticket-type resolution, signer authorization — all checks
// complete before any state mutation. Nullifier consumption and the session
// user write are the final steps of an all-or-nothing accept.
type Service struct {
	verifier zkp.Verifier
	resolver *tickets.Resolver
	guard    nullifier.Guard
	signer   *sso.Signer

	Audit    audit.Recorder
	MaxBatch int

	logger *logger.Logger
}

func NewService(
	verifier zkp.Verifier,
	resolver *tickets.Resolver,
	guard nullifier.Guard,
	signer *sso.Signer,
	opts ...func(*Service),
) *Service {
	s := &Service{
		verifier: verifier,
		resolver: resolver,
		guard:    guard,
		signer:   signer,
		Audit:    audit.NopRecorder{},
		MaxBatch: 10,
		logger:   logger.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Authenticate processes one login batch against the caller's session and
// returns the updated session plus the batch outcome. A *RequestError means
// nothing was processed.
func (s *Service) Authenticate(
	ctx context.Context,
	requestID string,
	sess session.Session,
	subs []zkp.Submission,
) (session.Session, Outcome, error) {
	if len(subs) == 0 {
		return sess, Outcome{}, &RequestError{
			Status:  http.StatusBadRequest,
			Code:    reasoncodes.ErrInvalidInput,
			Message: "No PCDs specified or invalid input format.",
		}
	}
	if len(subs) > s.MaxBatch {
		return sess, Outcome{}, &RequestError{
			Status:  http.StatusBadRequest,
			Code:    reasoncodes.ErrInvalidInput,
			Message: fmt.Sprintf("Too many proofs in one request (max %d).", s.MaxBatch),
		}
	}

	if sess.Nonce == "" {
		return sess, Outcome{}, &RequestError{
			Status:  http.StatusUnauthorized,
			Code:    reasoncodes.ErrNonceMissing,
			Message: "No nonce in session",
		}
	}
	if _, ok := new(big.Int).SetString(sess.Nonce, 16); !ok {
		return sess, Outcome{}, &RequestError{
			Status:  http.StatusUnauthorized,
			Code:    reasoncodes.ErrNonceMissing,
			Message: "Session nonce is not valid hex",
		}
	}

	// Validation phase. Proofs are independent: one rejection never aborts
	// its siblings, and deserialization/verification are pure, so the batch
	// runs concurrently. Results keep submission order.
	type proofResult struct {
		candidate *candidate
		rejection *Rejection
	}
	results := make([]proofResult, len(subs))

	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub zkp.Submission) {
			defer wg.Done()
			cand, rej := s.validateOne(ctx, i, sess.Nonce, sub)
			results[i] = proofResult{candidate: cand, rejection: rej}
		}(i, sub)
	}
	wg.Wait()

	outcome := Outcome{}
	var accepted []candidate

	// Mutation phase, in submission order. Consume is an atomic
	// insert-if-absent, so a concurrent request racing on the same
	// nullifier loses here even though both passed the Seen pre-check.
	for i, res := range results {
		if res.rejection != nil {
			outcome.Rejections = append(outcome.Rejections, *res.rejection)
			continue
		}
		cand := *res.candidate

		if err := s.guard.Consume(cand.claim.NullifierHash); err != nil {
			if errors.Is(err, nullifier.ErrReplayed) {
				outcome.Rejections = append(outcome.Rejections, Rejection{
					Index:   i,
					Code:    reasoncodes.ErrReplayedProof,
					Message: "PCD ticket has already been used",
					Status:  http.StatusUnauthorized,
				})
				continue
			}
			s.logger.Errorf(err, "Nullifier store failed for request %s", requestID)
			return sess, Outcome{}, &RequestError{
				Status:  http.StatusInternalServerError,
				Code:    reasoncodes.ErrInternal,
				Message: "Replay guard unavailable",
			}
		}

		accepted = append(accepted, cand)
		outcome.TicketTypes = append(outcome.TicketTypes, cand.ticketType)
	}

	if len(accepted) == 0 {
		s.recordAudit(requestID, audit.OutcomeRejected, outcome)
		return sess, outcome, nil
	}

	// One payload per request. The representative identity is the first
	// accepted claim; add_groups joins every accepted claim's ticket type
	// in processing order.
	groups := make([]string, 0, len(accepted))
	for _, cand := range accepted {
		groups = append(groups, string(cand.ticketType))
	}

	first := accepted[0].claim
	signed := s.signer.Sign(sso.Payload{
		Nonce:      sess.Nonce,
		Email:      first.AttendeeEmail,
		ExternalID: first.AttendeeSemaphoreID,
		AddGroups:  strings.Join(groups, ","),
	})

	sess.User = first.NullifierHash

	outcome.Response = &AuthenticateResponse{
		AttendeeEmail:  first.AttendeeEmail,
		EncodedPayload: signed.EncodedPayload,
		Sig:            signed.Signature,
		Status:         http.StatusOK,
	}

	s.recordAudit(requestID, audit.OutcomeAccepted, outcome)
	return sess, outcome, nil
}

// validateOne runs every check for a single proof and produces either a
// candidate or a terminal rejection. No state is touched here.
func (s *Service) validateOne(ctx context.Context, index int, nonce string, sub zkp.Submission) (*candidate, *Rejection) {
	reject := func(status int, code reasoncodes.ReasonCode, msg string) (*candidate, *Rejection) {
		return nil, &Rejection{Index: index, Code: code, Message: msg, Status: status}
	}

	if sub.Type != zkp.TypeZKEventTicket {
		return reject(http.StatusBadRequest, reasoncodes.ErrInvalidProofType,
			fmt.Sprintf("Invalid PCD type: %s", sub.Type))
	}

	proof, err := s.verifier.Deserialize([]byte(sub.PCD))
	if err != nil {
		return reject(http.StatusBadRequest, reasoncodes.ErrMalformedProof,
			"Invalid PCD format or deserialization error")
	}

	if err := s.verifier.Verify(ctx, proof); err != nil {
		if errors.Is(err, zkp.ErrVerificationTimeout) {
			return reject(http.StatusUnauthorized, reasoncodes.ErrVerificationTimeout,
				"Proof verification timed out")
		}
		return reject(http.StatusUnauthorized, reasoncodes.ErrInvalidProof,
			"ZK ticket PCD is not valid")
	}

	claim := proof.Claim

	if err := zkp.BindWatermark(nonce, claim.Watermark); err != nil {
		return reject(http.StatusUnauthorized, reasoncodes.ErrWatermarkMismatch,
			"PCD watermark doesn't match")
	}

	if claim.NullifierHash == "" {
		return reject(http.StatusUnauthorized, reasoncodes.ErrMissingNullifier,
			"PCD ticket nullifier has not been defined")
	}

	seen, err := s.guard.Seen(claim.NullifierHash)
	if err != nil {
		s.logger.Errorf(err, "Replay guard lookup failed")
		return reject(http.StatusInternalServerError, reasoncodes.ErrInternal,
			"Replay guard unavailable")
	}
	if seen {
		return reject(http.StatusUnauthorized, reasoncodes.ErrReplayedProof,
			"PCD ticket has already been used")
	}

	ticketType, err := s.resolver.ResolveClaim(claim.EventID, claim.ProductID, claim.ValidEventIDs)
	if err != nil {
		return nil, resolveRejection(index, claim, err)
	}

	authorizedKey, ok := s.resolver.AuthorizedKey(ticketType)
	if !ok {
		return reject(http.StatusBadRequest, reasoncodes.ErrUnknownTicketType,
			"Unable to determine ticket type")
	}
	if !authorizedKey.Equal(claim.Signer) {
		return reject(http.StatusUnauthorized, reasoncodes.ErrUntrustedSigner,
			"PCD is not signed by Zupass")
	}

	return &candidate{claim: claim, ticketType: ticketType}, nil
}

func resolveRejection(index int, claim zkp.Claim, err error) *Rejection {
	rej := &Rejection{Index: index, Status: http.StatusBadRequest, Message: err.Error()}
	switch {
	case errors.Is(err, tickets.ErrUnsupportedEvent):
		rej.Code = reasoncodes.ErrUnsupportedEvent
		rej.Message = fmt.Sprintf("PCD ticket is not for a supported event: %s", claim.EventID)
	case errors.Is(err, tickets.ErrUnsupportedEventSet):
		rej.Code = reasoncodes.ErrUnsupportedEventSet
		rej.Message = "PCD ticket is not restricted to supported events"
	case errors.Is(err, tickets.ErrNoEventDisclosed):
		rej.Code = reasoncodes.ErrNoEventDisclosed
	default:
		rej.Code = reasoncodes.ErrUnknownTicketType
		rej.Message = "Unable to determine ticket type"
	}
	return rej
}

// ValidateInbound checks the sso/sig pair of an inbound DiscourseConnect
// redirect and returns its decoded payload.
func (s *Service) ValidateInbound(ssoB64, sig string) (url.Values, error) {
	return s.signer.Validate(ssoB64, sig)
}

func (s *Service) recordAudit(requestID, outcome string, o Outcome) {
	event := audit.LoginEvent{
		RequestID: requestID,
		Outcome:   outcome,
		At:        timeutil.NowUTC(),
	}
	for _, r := range o.Rejections {
		event.Reasons = append(event.Reasons, string(r.Code))
	}
	for _, t := range o.TicketTypes {
		event.TicketTypes = append(event.TicketTypes, string(t))
	}
	s.Audit.Record(event)
}

package reasoncodes

// ReasonCode identifies why a submitted ticket proof was rejected (or why a
// whole request failed). Codes are reported to clients and to the audit queue.
type ReasonCode string

const (
	ErrInvalidInput        ReasonCode = "InvalidInput"
	ErrNonceMissing        ReasonCode = "NonceMissing"
	ErrInvalidProofType    ReasonCode = "InvalidProofType"
	ErrMalformedProof      ReasonCode = "MalformedProof"
	ErrInvalidProof        ReasonCode = "InvalidProof"
	ErrVerificationTimeout ReasonCode = "VerificationTimeout"
	ErrWatermarkMismatch   ReasonCode = "WatermarkMismatch"
	ErrMissingNullifier    ReasonCode = "MissingNullifier"
	ErrReplayedProof       ReasonCode = "ReplayedProof"
	ErrUnsupportedEvent    ReasonCode = "UnsupportedEvent"
	ErrUnsupportedEventSet ReasonCode = "UnsupportedEventSet"
	ErrNoEventDisclosed    ReasonCode = "NoEventDisclosed"
	ErrUnknownTicketType   ReasonCode = "UnknownTicketType"
	ErrUntrustedSigner     ReasonCode = "UntrustedSigner"
	ErrSigningFailure      ReasonCode = "SigningFailure"
	ErrInternal            ReasonCode = "InternalError"
)

package sso

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/url"
)

var ErrMissingSharedSecret = errors.New("no DiscourseConnect shared secret configured")

// Payload is the identity bundle handed to the downstream platform:
// the session nonce echoed back, the disclosed attendee identity, and the
// comma-joined ticket types to add the user to.
type Payload struct {
	Nonce      string
	Email      string
	ExternalID string
	AddGroups  string
}

// Signed is the wire form of a payload: form-encoded, base64'd, and signed.
type Signed struct {
	EncodedPayload string
	Signature      string
}

// Signer builds and checks DiscourseConnect HMAC-SHA256 signatures with the
// shared secret.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrMissingSharedSecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign form-encodes the payload, base64-encodes the result, and signs the
// base64 string. The signature is a pure function of payload and secret.
func (s *Signer) Sign(p Payload) Signed {
	values := url.Values{}
	values.Set("nonce", p.Nonce)
	values.Set("email", p.Email)
	values.Set("external_id", p.ExternalID)
	values.Set("add_groups", p.AddGroups)

	encoded := base64.StdEncoding.EncodeToString([]byte(values.Encode()))

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encoded))

	return Signed{
		EncodedPayload: encoded,
		Signature:      hex.EncodeToString(mac.Sum(nil)),
	}
}

// Validate checks an inbound DiscourseConnect request (the sso/sig query
// pair the platform redirects in with) and returns the decoded payload
// fields. The signature is checked before any decoding happens.
func (s *Signer) Validate(ssoB64, sigHex string) (url.Values, error) {
	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != sha256.Size {
		return nil, errors.New("malformed sso signature")
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(ssoB64))
	if !hmac.Equal(mac.Sum(nil), sig) {
		return nil, errors.New("sso signature mismatch")
	}

	raw, err := base64.StdEncoding.DecodeString(ssoB64)
	if err != nil {
		return nil, errors.New("sso payload is not valid base64")
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, errors.New("sso payload is not form-encoded")
	}
	return values, nil
}

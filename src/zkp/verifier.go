package zkp

import (
	"context"
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrMalformedProof      = errors.New("invalid proof format or deserialization error")
	ErrInvalidProof        = errors.New("zk ticket proof is not valid")
	ErrVerificationTimeout = errors.New("proof verification timed out")
	ErrWatermarkMismatch   = errors.New("proof watermark doesn't match session nonce")
)

// Verifier is the proof-system boundary: everything the bridge needs from
// the underlying zero-knowledge scheme.
type Verifier interface {
	Deserialize(raw []byte) (*Proof, error)
	Verify(ctx context.Context, p *Proof) error
}

// BindWatermark checks that a verified claim's watermark equals the session
// nonce. The nonce is hex; the watermark is an arbitrary-precision integer,
// so both sides are compared as integers to avoid radix and leading-zero
// mismatches.
func BindWatermark(nonceHex string, watermark *big.Int) error {
	expected, ok := new(big.Int).SetString(nonceHex, 16)
	if !ok {
		return fmt.Errorf("session nonce %q is not valid hex", nonceHex)
	}
	if watermark == nil || watermark.Cmp(expected) != 0 {
		return ErrWatermarkMismatch
	}
	return nil
}

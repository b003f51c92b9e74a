package zkp

import (
	"context"
	"encoding/base64"
	"errors"
	"math/big"
	"testing"
	"time"
)

func TestBindWatermarkMatchesHexNonce(t *testing.T) {
	if err := BindWatermark("1a2b", big.NewInt(0x1a2b)); err != nil {
		t.Errorf("Expected watermark to bind, got %v", err)
	}
}

func TestBindWatermarkIgnoresLeadingZeros(t *testing.T) {
	if err := BindWatermark("001a2b", big.NewInt(0x1a2b)); err != nil {
		t.Errorf("Expected leading zeros in the nonce to be irrelevant, got %v", err)
	}
}

func TestBindWatermarkMismatch(t *testing.T) {
	err := BindWatermark("1a2b", big.NewInt(0x1a2c))
	if !errors.Is(err, ErrWatermarkMismatch) {
		t.Errorf("Expected ErrWatermarkMismatch, got %v", err)
	}
}

func TestBindWatermarkNilWatermark(t *testing.T) {
	err := BindWatermark("1a2b", nil)
	if !errors.Is(err, ErrWatermarkMismatch) {
		t.Errorf("Expected ErrWatermarkMismatch for nil watermark, got %v", err)
	}
}

func TestBindWatermarkRejectsNonHexNonce(t *testing.T) {
	if err := BindWatermark("not hex", big.NewInt(1)); err == nil {
		t.Error("Expected non-hex nonce to be rejected")
	}
}

// Deserialization failures never depend on the verifying key, so a bare
// verifier value is enough here.
func testVerifier() *GnarkVerifier {
	return &GnarkVerifier{timeout: time.Second}
}

func TestDeserializeRejectsInvalidJSON(t *testing.T) {
	_, err := testVerifier().Deserialize([]byte("{not json"))
	if !errors.Is(err, ErrMalformedProof) {
		t.Errorf("Expected ErrMalformedProof, got %v", err)
	}
}

func TestDeserializeRejectsNonIntegerWatermark(t *testing.T) {
	raw := []byte(`{"claim":{"watermark":"0x1a2b"},"proof":{}}`)
	_, err := testVerifier().Deserialize(raw)
	if !errors.Is(err, ErrMalformedProof) {
		t.Errorf("Expected ErrMalformedProof for hex watermark, got %v", err)
	}
}

func TestDeserializeRejectsBadBase64Proof(t *testing.T) {
	raw := []byte(`{"claim":{"watermark":"6699"},"proof":{"proof_b64":"!!!","public_witness_b64":""}}`)
	_, err := testVerifier().Deserialize(raw)
	if !errors.Is(err, ErrMalformedProof) {
		t.Errorf("Expected ErrMalformedProof for invalid base64, got %v", err)
	}
}

func TestDeserializeRejectsTruncatedProofBytes(t *testing.T) {
	garbage := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03})
	raw := []byte(`{"claim":{"watermark":"6699"},"proof":{"proof_b64":"` + garbage + `","public_witness_b64":"` + garbage + `"}}`)
	_, err := testVerifier().Deserialize(raw)
	if !errors.Is(err, ErrMalformedProof) {
		t.Errorf("Expected ErrMalformedProof for truncated proof bytes, got %v", err)
	}
}

func TestVerifyRejectsEmptyProof(t *testing.T) {
	v := testVerifier()
	err := v.Verify(context.Background(), &Proof{})
	if !errors.Is(err, ErrMalformedProof) {
		t.Errorf("Expected ErrMalformedProof for missing groth16 material, got %v", err)
	}
}

package zkp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"

	"github.com/0xPetra/zuzagorauth/src/tickets"
)

const EllipticalCurveID = ecc.BN254

// pcdEnvelope is the JSON wire shape of a serialized ticket proof: the
// disclosed claim next to the base64 groth16 proof and public witness.
type pcdEnvelope struct {
	Claim struct {
		Watermark     string `json:"watermark"`
		NullifierHash string `json:"nullifierHash"`
		PartialTicket struct {
			EventID             string `json:"eventId"`
			ProductID           string `json:"productId"`
			AttendeeEmail       string `json:"attendeeEmail"`
			AttendeeSemaphoreID string `json:"attendeeSemaphoreId"`
		} `json:"partialTicket"`
		ValidEventIDs []string  `json:"validEventIds"`
		Signer        [2]string `json:"signer"`
	} `json:"claim"`
	Proof struct {
		ProofB64         string `json:"proof_b64"`
		PublicWitnessB64 string `json:"public_witness_b64"`
	} `json:"proof"`
}

// GnarkVerifier verifies groth16 ticket proofs against the server-held
// verifying key. The client's envelope never supplies the key.
type GnarkVerifier struct {
	vk      groth16.VerifyingKey
	timeout time.Duration
}

func NewGnarkVerifier(vkPath string, timeout time.Duration) (*GnarkVerifier, error) {
	vkBytes, err := os.ReadFile(vkPath)
	if err != nil {
		return nil, fmt.Errorf("read verifying key: %w", err)
	}

	vk := groth16.NewVerifyingKey(EllipticalCurveID)
	if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
		return nil, fmt.Errorf("load verifying key: %w", err)
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GnarkVerifier{vk: vk, timeout: timeout}, nil
}

func (v *GnarkVerifier) Deserialize(raw []byte) (*Proof, error) {
	var env pcdEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}

	watermark, ok := new(big.Int).SetString(env.Claim.Watermark, 10)
	if !ok {
		return nil, fmt.Errorf("%w: watermark is not an integer", ErrMalformedProof)
	}

	proofBytes, err := base64.StdEncoding.DecodeString(env.Proof.ProofB64)
	if err != nil {
		return nil, fmt.Errorf("%w: proof is not valid base64", ErrMalformedProof)
	}
	witnessBytes, err := base64.StdEncoding.DecodeString(env.Proof.PublicWitnessB64)
	if err != nil {
		return nil, fmt.Errorf("%w: public witness is not valid base64", ErrMalformedProof)
	}

	proof := groth16.NewProof(EllipticalCurveID)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return nil, fmt.Errorf("%w: cannot reconstruct proof", ErrMalformedProof)
	}

	publicWitness, err := witness.New(EllipticalCurveID.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("%w: cannot allocate witness", ErrMalformedProof)
	}
	if _, err := publicWitness.ReadFrom(bytes.NewReader(witnessBytes)); err != nil {
		return nil, fmt.Errorf("%w: cannot reconstruct public witness", ErrMalformedProof)
	}

	return &Proof{
		Claim: Claim{
			Watermark:           watermark,
			NullifierHash:       env.Claim.NullifierHash,
			EventID:             env.Claim.PartialTicket.EventID,
			ProductID:           env.Claim.PartialTicket.ProductID,
			ValidEventIDs:       env.Claim.ValidEventIDs,
			AttendeeEmail:       env.Claim.PartialTicket.AttendeeEmail,
			AttendeeSemaphoreID: env.Claim.PartialTicket.AttendeeSemaphoreID,
			Signer:              tickets.EdDSAPublicKey(env.Claim.Signer),
		},
		Groth16Proof:  proof,
		PublicWitness: publicWitness,
	}, nil
}

// Verify runs the groth16 check under a bounded timeout so adversarial
// inputs cannot pin a request handler.
func (v *GnarkVerifier) Verify(ctx context.Context, p *Proof) error {
	if p.Groth16Proof == nil || p.PublicWitness == nil {
		return ErrMalformedProof
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- groth16.Verify(p.Groth16Proof, v.vk, p.PublicWitness)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProof, err)
		}
		return nil
	case <-ctx.Done():
		return ErrVerificationTimeout
	}
}

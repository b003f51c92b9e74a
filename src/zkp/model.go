package zkp

import (
	"math/big"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"

	"github.com/0xPetra/zuzagorauth/src/tickets"
)

// TypeZKEventTicket is the only submission type the bridge accepts.
const TypeZKEventTicket = "zk-eddsa-event-ticket-pcd"

// Submission is one entry of the client's login batch: a type tag plus the
// serialized proof package.
type Submission struct {
	Type string `json:"type"`
	PCD  string `json:"pcd"`
}

// Claim holds the disclosed fields of a ticket proof. Nothing in here is
// trustworthy until the proof itself has been verified.
type Claim struct {
	Watermark           *big.Int
	NullifierHash       string
	EventID             string
	ProductID           string
	ValidEventIDs       []string
	AttendeeEmail       string
	AttendeeSemaphoreID string
	Signer              tickets.EdDSAPublicKey
}

// Proof is a deserialized ticket proof: the disclosed claim plus the
// cryptographic material backing it. The groth16 parts are nil when a
// non-gnark Verifier implementation is in play (tests).
type Proof struct {
	Claim         Claim
	Groth16Proof  groth16.Proof
	PublicWitness witness.Witness
}

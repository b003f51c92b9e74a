package nullifier

import "errors"

// ErrReplayed is returned by Consume when the nullifier was already
// recorded. Deliberately not retryable: the same proof is never accepted
// twice.
var ErrReplayed = errors.New("proof nullifier has already been used")

// Guard is the replay-prevention store. Keys are the exact nullifier strings
// produced by the proof system; no normalization.
//
// Seen is a read-only pre-check used during validation. Consume is the
// binding operation: an atomic insert-if-absent that either records the
// nullifier or fails with ErrReplayed, so two concurrent requests can never
// both claim the same proof.
type Guard interface {
	Seen(hash string) (bool, error)
	Consume(hash string) error
}

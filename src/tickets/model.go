package tickets

import (
	"fmt"
	"math/big"
)

// TicketType is the coarse membership tier a ticket grants. The set is
// closed: config entries naming anything else are rejected at load time.
type TicketType string

const (
	TypeMember    TicketType = "members"
	TypeResident  TicketType = "residents"
	TypeVisitor   TicketType = "visitors"
	TypeOrganizer TicketType = "organizers"
)

var knownTypes = map[TicketType]struct{}{
	TypeMember:    {},
	TypeResident:  {},
	TypeVisitor:   {},
	TypeOrganizer: {},
}

func ParseTicketType(s string) (TicketType, error) {
	t := TicketType(s)
	if _, ok := knownTypes[t]; !ok {
		return "", fmt.Errorf("unknown ticket type %q", s)
	}
	return t, nil
}

// EdDSAPublicKey is a Baby Jubjub EdDSA public key as the two hex-encoded
// field elements the proof system discloses.
type EdDSAPublicKey [2]string

// Equal compares keys as field elements, not strings, so leading zeros or
// case differences in the hex encoding do not break the comparison.
func (k EdDSAPublicKey) Equal(other EdDSAPublicKey) bool {
	for i := 0; i < 2; i++ {
		a, okA := new(big.Int).SetString(k[i], 16)
		b, okB := new(big.Int).SetString(other[i], 16)
		if !okA || !okB {
			return false
		}
		if a.Cmp(b) != 0 {
			return false
		}
	}
	return true
}

// Entry is one whitelisted (event, product) pair and the key authorized to
// sign tickets of its type.
type Entry struct {
	TicketType  TicketType
	EventID     string
	ProductID   string
	EventName   string
	ProductName string
	PublicKey   EdDSAPublicKey
}

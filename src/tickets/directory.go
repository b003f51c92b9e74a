package tickets

import (
	"fmt"
)

type pairKey struct {
	eventID   string
	productID string
}

// Directory is the immutable (event, product) -> ticket type table, built
// once at startup from config. All entries sharing a ticket type must carry
// the same authorized public key; the constructor enforces this.
type Directory struct {
	byPair      map[pairKey]TicketType
	keyByType   map[TicketType]EdDSAPublicKey
	typeByEvent map[string]map[TicketType]struct{}
}

func NewDirectory(entries []Entry) (*Directory, error) {
	d := &Directory{
		byPair:      make(map[pairKey]TicketType),
		keyByType:   make(map[TicketType]EdDSAPublicKey),
		typeByEvent: make(map[string]map[TicketType]struct{}),
	}

	for _, e := range entries {
		if _, ok := knownTypes[e.TicketType]; !ok {
			return nil, fmt.Errorf("entry %s/%s: unknown ticket type %q", e.EventID, e.ProductID, e.TicketType)
		}
		if e.EventID == "" || e.ProductID == "" {
			return nil, fmt.Errorf("entry for ticket type %q is missing event or product id", e.TicketType)
		}

		key := pairKey{eventID: e.EventID, productID: e.ProductID}
		if existing, ok := d.byPair[key]; ok && existing != e.TicketType {
			return nil, fmt.Errorf("pair %s/%s mapped to both %q and %q", e.EventID, e.ProductID, existing, e.TicketType)
		}
		d.byPair[key] = e.TicketType

		if existing, ok := d.keyByType[e.TicketType]; ok {
			if !existing.Equal(e.PublicKey) {
				return nil, fmt.Errorf("ticket type %q carries two different public keys", e.TicketType)
			}
		} else {
			d.keyByType[e.TicketType] = e.PublicKey
		}

		if _, ok := d.typeByEvent[e.EventID]; !ok {
			d.typeByEvent[e.EventID] = make(map[TicketType]struct{})
		}
		d.typeByEvent[e.EventID][e.TicketType] = struct{}{}
	}

	return d, nil
}

// Resolve maps a disclosed (eventId, productId) pair to its ticket type.
func (d *Directory) Resolve(eventID, productID string) (TicketType, bool) {
	t, ok := d.byPair[pairKey{eventID: eventID, productID: productID}]
	return t, ok
}

// AuthorizedKey returns the one public key allowed to sign tickets of the
// given type.
func (d *Directory) AuthorizedKey(t TicketType) (EdDSAPublicKey, bool) {
	k, ok := d.keyByType[t]
	return k, ok
}

// typesForEvents collects the ticket types reachable from any of the given
// events. Used for disjunctive claims that never disclose a concrete pair.
func (d *Directory) typesForEvents(eventIDs []string) map[TicketType]struct{} {
	out := make(map[TicketType]struct{})
	for _, id := range eventIDs {
		for t := range d.typeByEvent[id] {
			out[t] = struct{}{}
		}
	}
	return out
}

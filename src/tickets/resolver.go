package tickets

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedEvent    = errors.New("ticket is not for a supported event")
	ErrUnsupportedEventSet = errors.New("ticket is not restricted to supported events")
	ErrNoEventDisclosed    = errors.New("proof discloses neither an event nor a valid event set")
	ErrUnknownTicketType   = errors.New("unable to determine ticket type")
)

// Resolver turns a claim's disclosed event scope into a ticket type, holding
// the supported-events allow-list next to the directory.
type Resolver struct {
	dir       *Directory
	supported map[string]struct{}
}

func NewResolver(dir *Directory, supportedEvents []string) *Resolver {
	supported := make(map[string]struct{}, len(supportedEvents))
	for _, id := range supportedEvents {
		supported[id] = struct{}{}
	}
	return &Resolver{dir: dir, supported: supported}
}

// ResolveClaim resolves a verified claim's disclosure to a ticket type.
//
// A claim discloses either a concrete (eventId, productId) pair, or only the
// disjunctive validEventIds set it was restricted to. The pair form resolves
// through the directory. The disjunctive form resolves only when every listed
// event is supported and all of them map to a single ticket type; anything
// else fails closed.
func (r *Resolver) ResolveClaim(eventID, productID string, validEventIDs []string) (TicketType, error) {
	if eventID != "" {
		if _, ok := r.supported[eventID]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedEvent, eventID)
		}
		t, ok := r.dir.Resolve(eventID, productID)
		if !ok {
			return "", fmt.Errorf("%w: %s/%s", ErrUnknownTicketType, eventID, productID)
		}
		return t, nil
	}

	if len(validEventIDs) == 0 {
		return "", ErrNoEventDisclosed
	}

	for _, id := range validEventIDs {
		if _, ok := r.supported[id]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedEventSet, id)
		}
	}

	types := r.dir.typesForEvents(validEventIDs)
	if len(types) != 1 {
		return "", fmt.Errorf("%w: event set maps to %d ticket types", ErrUnknownTicketType, len(types))
	}
	for t := range types {
		return t, nil
	}
	return "", ErrUnknownTicketType
}

// AuthorizedKey exposes the directory's type -> key binding for the
// defense-in-depth signer check.
func (r *Resolver) AuthorizedKey(t TicketType) (EdDSAPublicKey, bool) {
	return r.dir.AuthorizedKey(t)
}

package nullifier

import (
	"errors"

	bolt "go.etcd.io/bbolt"
)

var nullifierBucket = []byte("nullifiers")

// BoltGuard persists consumed nullifiers in a bbolt database so a process
// restart does not silently re-enable replays.
type BoltGuard struct {
	db *bolt.DB
}

func NewBoltGuard(path string) (*BoltGuard, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(nullifierBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltGuard{db: db}, nil
}

func (g *BoltGuard) Seen(hash string) (bool, error) {
	var seen bool
	err := g.db.View(func(tx *bolt.Tx) error {
		seen = tx.Bucket(nullifierBucket).Get([]byte(hash)) != nil
		return nil
	})
	return seen, err
}

// Consume records the nullifier inside a single write transaction; bbolt's
// one-writer model makes the check-then-insert atomic.
func (g *BoltGuard) Consume(hash string) error {
	return g.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(nullifierBucket)
		if bucket.Get([]byte(hash)) != nil {
			return ErrReplayed
		}
		return bucket.Put([]byte(hash), []byte{1})
	})
}

func (g *BoltGuard) Close() error {
	if g.db == nil {
		return errors.New("guard already closed")
	}
	err := g.db.Close()
	g.db = nil
	return err
}

// Package store keeps view preferences and the last fetched copy of each
// collection in a local bbolt file.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/drills/internal/view"
)

const (
	prefsBucket     = "prefs"
	snapshotsBucket = "snapshots"
	prefsKey        = "view"
)

// Prefs is the view state restored when the dashboard starts.
type Prefs struct {
	Tab       string                       `json:"tab"`
	Filter    view.Filter                  `json:"filter"`
	Sessions  view.Sort[view.SessionField] `json:"sessions"`
	Users     view.Sort[view.UserField]    `json:"users"`
	Summaries view.Sort[view.SummaryField] `json:"summaries"`
}

// DefaultPrefs returns the initial view state.
func DefaultPrefs() Prefs {
	return Prefs{
		Filter:    view.FilterAll,
		Sessions:  view.DefaultSessionSort,
		Users:     view.DefaultUserSort,
		Summaries: view.DefaultSummarySort,
	}
}

// Snapshot is the raw JSON of a collection as last fetched.
type Snapshot struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
}

// Decode unmarshals the snapshot data into v.
func (s Snapshot) Decode(v any) error {
	if err := json.Unmarshal(s.Data, v); err != nil {
		return errCorruptRecord.Fmt(s.Key).Wrap(err)
	}

	return nil
}

// Client is a bbolt database client.
type Client struct {
	*bolt.DB
}

// NewClient opens or creates the data file at dbPath.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{prefsBucket, snapshotsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errOpenDB.Fmt(dbPath).Wrap(err)
	}

	return &Client{db}, nil
}

// openDB opens the file and takes its lock.
func openDB(dbPath string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		dbPath,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, errOpenDB.Fmt(dbPath).Wrap(err)
	}

	return db, nil
}

func (c *Client) SavePrefs(p Prefs) error {
	value, err := json.Marshal(p)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(prefsBucket)).Put([]byte(prefsKey), value)
	})
}

// LoadPrefs returns the saved preferences, or DefaultPrefs if none exist.
func (c *Client) LoadPrefs() (Prefs, error) {
	p := DefaultPrefs()

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefsBucket)).Get([]byte(prefsKey))
		if len(b) == 0 {
			return nil
		}

		if err := json.Unmarshal(b, &p); err != nil {
			return errCorruptRecord.Fmt(prefsKey).Wrap(err)
		}

		return nil
	})

	return p, err
}

// SaveSnapshot stores data under key, replacing any earlier copy.
func (c *Client) SaveSnapshot(key string, data []byte, fetchedAt time.Time) error {
	value, err := json.Marshal(Snapshot{
		Key:       key,
		Data:      data,
		FetchedAt: fetchedAt,
	})
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(snapshotsBucket)).Put([]byte(key), value)
	})
}

func (c *Client) LoadSnapshot(key string) (Snapshot, error) {
	var s Snapshot

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotsBucket)).Get([]byte(key))
		if len(b) == 0 {
			return errNoSnapshot.Fmt(key)
		}

		if err := json.Unmarshal(b, &s); err != nil {
			return errCorruptRecord.Fmt(key).Wrap(err)
		}

		return nil
	})

	return s, err
}

// SnapshotKeys lists the keys that have a saved snapshot.
func (c *Client) SnapshotKeys() ([]string, error) {
	var keys []string

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(snapshotsBucket)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})

	return keys, err
}

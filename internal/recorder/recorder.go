// Package recorder persists periodic telemetry snapshots to a BoltDB
// file, entirely outside the driver core: the session package never
// imports this, a collaborator binary polls the session and hands
// snapshots to the Recorder.
package recorder

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"tellogo/internal/telemetry"
	"tellogo/internal/util"
)

var telemetryBucket = []byte("telemetry")

// Snapshot is one point-in-time telemetry record, serialized as JSON into
// the bucket keyed by its own timestamp.
type Snapshot struct {
	Time       time.Time              `json:"time"`
	Connected  bool                   `json:"connected"`
	FlightData *telemetry.FlightData  `json:"flight_data,omitempty"`
}

// Recorder owns a BoltDB handle and appends Snapshots to it.
type Recorder struct {
	db *bbolt.DB
}

// Open creates or opens the BoltDB file at path and ensures the
// telemetry bucket exists.
func Open(path string) (*Recorder, error) {
	db, err := bbolt.Open(path, 0o666, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("recorder: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(telemetryBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("recorder: create bucket: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record appends snap to the store, keyed by its UTC RFC3339 timestamp
// with a fixed nine-digit fraction, so key order is time order.
func (r *Recorder) Record(snap Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("recorder: marshal snapshot: %w", err)
	}
	key := []byte(snap.Time.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"))
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(telemetryBucket).Put(key, body)
	})
}

// Latest returns the snapshot with the latest timestamp, if any.
func (r *Recorder) Latest() (Snapshot, bool) {
	var snap Snapshot
	found := false
	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(telemetryBucket).Cursor()
		_, v := c.Last()
		if v == nil {
			return nil
		}
		if uErr := json.Unmarshal(v, &snap); uErr != nil {
			return uErr
		}
		found = true
		return nil
	})
	if err != nil {
		util.Error("[recorder] read latest: %v", err)
		return Snapshot{}, false
	}
	return snap, found
}

// Close releases the underlying BoltDB file.
func (r *Recorder) Close() error {
	return r.db.Close()
}

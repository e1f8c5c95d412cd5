package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if _, ok := r.Latest(); ok {
		t.Fatal("expected no snapshot in a fresh store")
	}

	first := Snapshot{Time: time.Now(), Connected: false}
	if err := r.Record(first); err != nil {
		t.Fatalf("Record: %v", err)
	}

	second := Snapshot{Time: first.Time.Add(time.Second), Connected: true}
	if err := r.Record(second); err != nil {
		t.Fatalf("Record: %v", err)
	}

	latest, ok := r.Latest()
	if !ok {
		t.Fatal("expected a snapshot after recording")
	}
	if !latest.Connected {
		t.Fatal("expected the latest snapshot to be the second (connected) one")
	}
}

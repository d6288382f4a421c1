/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ademuri/spotify-tools/internal/store"
)

func createTestDb(t *testing.T) (*store.Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dbPath
}

func populateStream(t *testing.T, db *store.Store, trackID string, at time.Time, msPlayed int64) {
	t.Helper()
	_, err := db.AddStreams([]store.StreamImport{{
		TrackID:     trackID,
		StreamedAt:  at,
		MsPlayed:    msPlayed,
		ReasonStart: "trackdone",
		ReasonEnd:   "trackdone",
	}})
	if err != nil {
		t.Fatalf("AddStreams: %v", err)
	}
}

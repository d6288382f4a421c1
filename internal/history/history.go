// Package history discovers and parses Spotify extended streaming history
// exports: the Streaming_History_*.json files from a privacy data request.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix = "Streaming_History_"
	fileSuffix = ".json"
)

// Record is one entry of an extended streaming history file. Metadata fields
// are null in the export for podcast episodes and local files, which is why
// they decode into pointers.
type Record struct {
	Timestamp  string  `json:"ts"`
	MsPlayed   int64   `json:"ms_played"`
	TrackName  *string `json:"master_metadata_track_name"`
	ArtistName *string `json:"master_metadata_album_artist_name"`
	AlbumName  *string `json:"master_metadata_album_album_name"`
	TrackURI   *string `json:"spotify_track_uri"`

	ReasonStart string `json:"reason_start"`
	ReasonEnd   string `json:"reason_end"`
	Skipped     bool   `json:"skipped"`
}

// TrackID returns the bare track ID from the record's spotify:track:<id>
// URI, or "" when the record has no track URI (podcasts, local files).
func (r Record) TrackID() string {
	if r.TrackURI == nil {
		return ""
	}
	uri := *r.TrackURI
	idx := strings.LastIndex(uri, ":")
	if idx < 0 || idx == len(uri)-1 {
		return ""
	}
	return uri[idx+1:]
}

// StreamedAt parses the record's timestamp.
func (r Record) StreamedAt() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", r.Timestamp, err)
	}
	return t, nil
}

// ListStreamingFiles returns the paths of all streaming history files in
// dir, in lexical order. An empty result is not an error; callers decide
// whether missing data is fatal.
func ListStreamingFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory %q: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// LoadFile parses a single streaming history file.
func LoadFile(path string) ([]Record, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(contents, &records); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return records, nil
}

// LoadFiles parses every given file and concatenates their records in file
// order.
func LoadFiles(paths []string) ([]Record, error) {
	var records []Record
	for _, path := range paths {
		fileRecords, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

package store

import (
	"fmt"
	"time"
)

// StreamImport is one history record ready for insertion.
type StreamImport struct {
	TrackID     string
	TrackName   string
	Artist      string
	StreamedAt  time.Time
	MsPlayed    int64
	ReasonStart string
	ReasonEnd   string
	Skipped     bool
}

// TrackRecord is catalog metadata for one track.
type TrackRecord struct {
	ID         string
	Name       string
	Artist     string
	Album      string
	DurationMs int64
	ArtworkURL string
	Popularity int
}

// AddStreams inserts a batch of history records transactionally. Re-importing
// the same files is safe: duplicate rows are ignored.
func (s *Store) AddStreams(streams []StreamImport) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, stream := range streams {
		res, err := tx.Exec(`
			INSERT OR IGNORE INTO Stream
			(track, streamed_at, ms_played, track_name, artist, reason_start, reason_end, skipped)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			stream.TrackID, stream.StreamedAt.Unix(), stream.MsPlayed,
			stream.TrackName, stream.Artist,
			stream.ReasonStart, stream.ReasonEnd, stream.Skipped)
		if err != nil {
			return 0, fmt.Errorf("inserting stream for %q: %w", stream.TrackID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted rows: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted, nil
}

// SaveTracks upserts catalog metadata for a batch of tracks.
func (s *Store) SaveTracks(tracks []TrackRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, track := range tracks {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO Track
			(id, name, artist, album, duration_ms, artwork_url, popularity)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			track.ID, track.Name, track.Artist, track.Album,
			track.DurationMs, track.ArtworkURL, track.Popularity)
		if err != nil {
			return fmt.Errorf("saving track %q: %w", track.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ReplacePlaylist records a playlist and its current track membership,
// replacing whatever membership was stored before.
func (s *Store) ReplacePlaylist(id, name string, trackIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT OR REPLACE INTO Playlist (id, name) VALUES (?, ?)", id, name); err != nil {
		return fmt.Errorf("saving playlist %q: %w", name, err)
	}
	if _, err := tx.Exec("DELETE FROM PlaylistTrack WHERE playlist = ?", id); err != nil {
		return fmt.Errorf("clearing playlist %q: %w", name, err)
	}
	for _, trackID := range trackIDs {
		if _, err := tx.Exec("INSERT OR IGNORE INTO PlaylistTrack (playlist, track) VALUES (?, ?)", id, trackID); err != nil {
			return fmt.Errorf("adding track %q to playlist %q: %w", trackID, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Store) SetRefreshToken(token string) error {
	_, err := s.db.Exec(`
		INSERT INTO Auth (id, refresh_token) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET refresh_token = excluded.refresh_token`, token)
	if err != nil {
		return fmt.Errorf("storing refresh token: %w", err)
	}
	return nil
}

func (s *Store) SetLastUpdated(updated time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO Auth (id, last_updated) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET last_updated = excluded.last_updated`, updated)
	if err != nil {
		return fmt.Errorf("storing last updated: %w", err)
	}
	return nil
}

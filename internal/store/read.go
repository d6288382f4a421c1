package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/spotify-tools/internal/analysis"
)

func (s *Store) GetRefreshToken() (string, error) {
	row := s.db.QueryRow("SELECT refresh_token FROM Auth WHERE id = 1 AND refresh_token <> ''")
	var token string
	err := row.Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting refresh token: %w", err)
	}
	return token, nil
}

func (s *Store) GetLastUpdated() (time.Time, error) {
	row := s.db.QueryRow("SELECT last_updated FROM Auth WHERE id = 1")
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last updated: %w", err)
	}
	return t.Time, nil
}

// GetStreams loads stream events in [start, end), oldest first, joined with
// catalog metadata where available. Catalog names win over history names;
// track duration only exists in the catalog.
func (s *Store) GetStreams(start, end time.Time) ([]analysis.StreamEvent, error) {
	query := `
	SELECT s.track, s.streamed_at, s.ms_played,
	       COALESCE(NULLIF(t.name, ''), s.track_name, ''),
	       COALESCE(NULLIF(t.artist, ''), s.artist, ''),
	       COALESCE(t.duration_ms, 0),
	       COALESCE(s.reason_start, ''), COALESCE(s.reason_end, ''), s.skipped
	FROM Stream s
	LEFT JOIN Track t ON t.id = s.track
	WHERE s.streamed_at >= ? AND s.streamed_at < ?
	ORDER BY s.streamed_at ASC
	`
	rows, err := s.db.Query(query, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying streams: %w", err)
	}
	defer rows.Close()

	var events []analysis.StreamEvent
	for rows.Next() {
		var e analysis.StreamEvent
		var streamedAt int64
		if err := rows.Scan(&e.TrackKey, &streamedAt, &e.MsPlayed,
			&e.TrackName, &e.Artist, &e.DurationMs,
			&e.ReasonStart, &e.ReasonEnd, &e.Skipped); err != nil {
			return nil, fmt.Errorf("scanning stream: %w", err)
		}
		e.StreamedAt = time.Unix(streamedAt, 0).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetCatalog loads the full metadata side table, including playlist
// memberships.
func (s *Store) GetCatalog() (analysis.Catalog, error) {
	catalog := make(analysis.Catalog)

	rows, err := s.db.Query("SELECT id, name, artist, album, duration_ms, artwork_url, popularity FROM Track")
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var info analysis.TrackInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Artist, &info.Album,
			&info.DurationMs, &info.ArtworkURL, &info.Popularity); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		catalog[info.ID] = info
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberships, err := s.db.Query(`
		SELECT pt.track, p.name
		FROM PlaylistTrack pt
		JOIN Playlist p ON p.id = pt.playlist
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("querying playlist memberships: %w", err)
	}
	defer memberships.Close()

	for memberships.Next() {
		var trackID, playlistName string
		if err := memberships.Scan(&trackID, &playlistName); err != nil {
			return nil, fmt.Errorf("scanning membership: %w", err)
		}
		info, ok := catalog[trackID]
		if !ok {
			// Playlist track never streamed and not yet catalogued.
			info = analysis.TrackInfo{ID: trackID}
		}
		info.Playlists = append(info.Playlists, playlistName)
		catalog[trackID] = info
	}
	return catalog, memberships.Err()
}

// GetUncataloguedTrackIDs returns the IDs of streamed tracks with no catalog
// entry, the set the update command fetches metadata for.
func (s *Store) GetUncataloguedTrackIDs() ([]string, error) {
	query := `
	SELECT DISTINCT s.track
	FROM Stream s
	LEFT JOIN Track t ON t.id = s.track
	WHERE t.id IS NULL
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying uncatalogued tracks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetStreamRange returns the timestamps of the oldest and newest imported
// streams. Zero times when nothing is imported.
func (s *Store) GetStreamRange() (time.Time, time.Time, error) {
	row := s.db.QueryRow("SELECT MIN(streamed_at), MAX(streamed_at) FROM Stream")
	var first, last sql.NullInt64
	if err := row.Scan(&first, &last); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("getting stream range: %w", err)
	}
	if !first.Valid || !last.Valid {
		return time.Time{}, time.Time{}, nil
	}
	return time.Unix(first.Int64, 0).UTC(), time.Unix(last.Int64, 0).UTC(), nil
}

// Package migration holds the database schema.
package migration

// Create sets up all tables for a fresh database.
const Create = `
CREATE TABLE IF NOT EXISTS Auth (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  refresh_token TEXT,
  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS Track (
  id TEXT PRIMARY KEY,
  name TEXT,
  artist TEXT,
  album TEXT,
  duration_ms INTEGER,
  artwork_url TEXT,
  popularity INTEGER
);

CREATE TABLE IF NOT EXISTS Stream (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  track TEXT NOT NULL,
  streamed_at INTEGER NOT NULL,
  ms_played INTEGER NOT NULL DEFAULT 0,
  track_name TEXT,
  artist TEXT,
  reason_start TEXT,
  reason_end TEXT,
  skipped INTEGER NOT NULL DEFAULT 0,
  UNIQUE (track, streamed_at, ms_played)
);

CREATE INDEX IF NOT EXISTS StreamDate ON Stream (streamed_at);

CREATE TABLE IF NOT EXISTS Playlist (
  id TEXT PRIMARY KEY,
  name TEXT
);

CREATE TABLE IF NOT EXISTS PlaylistTrack (
  playlist TEXT,
  track TEXT,
  PRIMARY KEY (playlist, track),
  FOREIGN KEY (playlist) REFERENCES Playlist(id)
);
`

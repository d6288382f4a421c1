// Package spotify is a minimal client for the parts of the Spotify Web API
// this tool needs: track metadata, the user's library, and playlists.
package spotify

// Track is the API's track object, trimmed to the fields we store.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DurationMs int64    `json:"duration_ms"`
	Popularity int      `json:"popularity"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
}

type Artist struct {
	Name string `json:"name"`
}

type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ArtistName returns the primary artist, or "" for tracks without one.
func (t Track) ArtistName() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// ArtworkURL returns the first (largest) album image, or "".
func (t Track) ArtworkURL() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

// SavedTrack is one entry in the user's Liked Songs.
type SavedTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type savedTracksPage struct {
	Items []SavedTrack `json:"items"`
	Next  string       `json:"next"`
	Total int          `json:"total"`
}

type playlistsPage struct {
	Items []Playlist `json:"items"`
	Next  string     `json:"next"`
}

type playlistTracksPage struct {
	Items []struct {
		// Local files appear in playlists with a null track.
		Track *Track `json:"track"`
	} `json:"items"`
	Next string `json:"next"`
}

type tracksResponse struct {
	Tracks []Track `json:"tracks"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

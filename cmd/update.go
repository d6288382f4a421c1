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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ademuri/spotify-tools/internal/spotify"
	"github.com/ademuri/spotify-tools/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The pseudo-playlist ID used to store Liked Songs, which the API does not
// model as a playlist.
const likedSongsID = "liked-songs"

type UpdateConfig struct {
	DbPath       string
	ClientID     string
	ClientSecret string
	Force        bool
}

var updateForce bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Updates track metadata and playlists from the Spotify API",
	Long: `Fetches Liked Songs, playlists, and metadata for every streamed track.
Run authenticate first to grant this tool access to your library.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := UpdateConfig{
			DbPath:       viper.GetString("database"),
			ClientID:     viper.GetString("client_id"),
			ClientSecret: viper.GetString("client_secret"),
			Force:        updateForce,
		}
		err := runUpdate(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "Update even if recently updated")
}

func runUpdate(config UpdateConfig) error {
	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	lastUpdated, err := db.GetLastUpdated()
	if err != nil {
		return fmt.Errorf("getting last update time: %w", err)
	}
	if !config.Force && time.Since(lastUpdated) < 24*time.Hour {
		fmt.Printf("Updated recently (%s), use --force to update anyway\n", lastUpdated.Format("2006-01-02 15:04"))
		return nil
	}

	refreshToken, err := db.GetRefreshToken()
	if err != nil {
		return fmt.Errorf("getting refresh token: %w", err)
	}
	if refreshToken == "" {
		return fmt.Errorf("Not authenticated - run authenticate first.")
	}

	ctx := context.Background()
	client := spotify.NewClient(config.ClientID, config.ClientSecret)
	if err := client.RefreshAccessToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("refreshing access token: %w", err)
	}

	if err := updateLibrary(ctx, db, client); err != nil {
		return err
	}
	if err := updatePlaylists(ctx, db, client); err != nil {
		return err
	}
	if err := updateTracks(ctx, db, client); err != nil {
		return err
	}

	if err := db.SetLastUpdated(time.Now()); err != nil {
		return fmt.Errorf("recording update time: %w", err)
	}
	return nil
}

func updateLibrary(ctx context.Context, db *store.Store, client *spotify.Client) error {
	fmt.Println("Fetching Liked Songs...")
	saved, err := client.GetSavedTracks(ctx)
	if err != nil {
		return fmt.Errorf("getting saved tracks: %w", err)
	}

	tracks := make([]store.TrackRecord, 0, len(saved))
	ids := make([]string, 0, len(saved))
	for _, s := range saved {
		tracks = append(tracks, trackRecord(s.Track))
		ids = append(ids, s.Track.ID)
	}
	if err := db.SaveTracks(tracks); err != nil {
		return fmt.Errorf("saving liked tracks: %w", err)
	}
	if err := db.ReplacePlaylist(likedSongsID, "Liked Songs", ids); err != nil {
		return fmt.Errorf("saving Liked Songs: %w", err)
	}

	fmt.Printf("Found %d liked songs\n", len(saved))
	return nil
}

func updatePlaylists(ctx context.Context, db *store.Store, client *spotify.Client) error {
	playlists, err := client.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("getting playlists: %w", err)
	}
	fmt.Printf("Found %d playlists\n", len(playlists))

	for i, playlist := range playlists {
		fmt.Printf("[%d/%d] Fetching playlist: %s\n", i+1, len(playlists), playlist.Name)
		tracks, err := client.GetPlaylistTracks(ctx, playlist.ID)
		if err != nil {
			return fmt.Errorf("getting tracks for playlist %q: %w", playlist.Name, err)
		}

		records := make([]store.TrackRecord, 0, len(tracks))
		ids := make([]string, 0, len(tracks))
		for _, track := range tracks {
			records = append(records, trackRecord(track))
			ids = append(ids, track.ID)
		}
		if err := db.SaveTracks(records); err != nil {
			return fmt.Errorf("saving tracks for playlist %q: %w", playlist.Name, err)
		}
		if err := db.ReplacePlaylist(playlist.ID, playlist.Name, ids); err != nil {
			return fmt.Errorf("saving playlist %q: %w", playlist.Name, err)
		}
	}
	return nil
}

// updateTracks fetches metadata for streamed tracks that aren't in the
// library or any playlist.
func updateTracks(ctx context.Context, db *store.Store, client *spotify.Client) error {
	ids, err := db.GetUncataloguedTrackIDs()
	if err != nil {
		return fmt.Errorf("finding uncatalogued tracks: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	fmt.Printf("Fetching metadata for %d streamed tracks\n", len(ids))
	tracks, err := client.GetTracks(ctx, ids)
	if err != nil {
		return fmt.Errorf("getting track metadata: %w", err)
	}

	records := make([]store.TrackRecord, 0, len(tracks))
	for _, track := range tracks {
		records = append(records, trackRecord(track))
	}
	if err := db.SaveTracks(records); err != nil {
		return fmt.Errorf("saving track metadata: %w", err)
	}
	return nil
}

func trackRecord(t spotify.Track) store.TrackRecord {
	return store.TrackRecord{
		ID:         t.ID,
		Name:       t.Name,
		Artist:     t.ArtistName(),
		Album:      t.Album.Name,
		DurationMs: t.DurationMs,
		ArtworkURL: t.ArtworkURL(),
		Popularity: t.Popularity,
	}
}

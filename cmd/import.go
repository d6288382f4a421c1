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
	"fmt"
	"os"

	"github.com/ademuri/spotify-tools/internal/history"
	"github.com/ademuri/spotify-tools/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Imports an extended streaming history export",
	Long: `Reads the Streaming_History_*.json files from the data directory into the
database. Safe to run repeatedly: already-imported streams are skipped.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runImport(viper.GetString("database"), viper.GetString("data"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(dbPath string, dataDir string) error {
	files, err := history.ListStreamingFiles(dataDir)
	if err != nil {
		return fmt.Errorf("listing history files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("No streaming history files found in %q. Request your extended streaming history from Spotify and unpack it there.", dataDir)
	}

	records, err := history.LoadFiles(files)
	if err != nil {
		return fmt.Errorf("loading history files: %w", err)
	}

	var streams []store.StreamImport
	skipped := 0
	for _, record := range records {
		// Podcast episodes and local files have no track URI.
		if record.TrackID() == "" {
			skipped++
			continue
		}
		streamedAt, err := record.StreamedAt()
		if err != nil {
			return fmt.Errorf("parsing timestamp: %w", err)
		}

		stream := store.StreamImport{
			TrackID:     record.TrackID(),
			StreamedAt:  streamedAt,
			MsPlayed:    record.MsPlayed,
			ReasonStart: record.ReasonStart,
			ReasonEnd:   record.ReasonEnd,
			Skipped:     record.Skipped,
		}
		if record.TrackName != nil {
			stream.TrackName = *record.TrackName
		}
		if record.ArtistName != nil {
			stream.Artist = *record.ArtistName
		}
		streams = append(streams, stream)
	}

	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	inserted, err := db.AddStreams(streams)
	if err != nil {
		return fmt.Errorf("importing streams: %w", err)
	}

	fmt.Printf("Read %d records from %d files\n", len(records), len(files))
	if skipped > 0 {
		fmt.Printf("Skipped %d records without a track (podcasts, local files)\n", skipped)
	}
	fmt.Printf("Imported %d new streams (%d already present)\n", inserted, int64(len(streams))-inserted)
	return nil
}

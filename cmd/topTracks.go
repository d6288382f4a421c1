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
	"io"
	"os"
	"strconv"

	"github.com/ademuri/spotify-tools/internal/analysis"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	topTracksNumber    int
	topTracksBottom    bool
	topTracksShrinkage float64
	weightFraction     float64
	weightStart        float64
	weightEnd          float64
	weightSkip         float64
	weightSave         float64
)

var topTracksCmd = &cobra.Command{
	Use:   "top-tracks [from] [to (optional)]",
	Short: "Shows the tracks you enjoyed most",
	Long: `Ranks tracks by estimated enjoyment over the given period. With no date
arguments, the whole imported history is used.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopTracks(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topTracksCmd)
	topTracksCmd.Flags().IntVarP(&topTracksNumber, "number", "n", 10, "Number of tracks to show")
	topTracksCmd.Flags().BoolVar(&topTracksBottom, "bottom", false, "Show the least enjoyed tracks instead")
	topTracksCmd.Flags().Float64Var(&topTracksShrinkage, "shrinkage", analysis.DefaultShrinkage,
		"How strongly rarely-played tracks are pulled toward the average")
	topTracksCmd.Flags().Float64Var(&weightFraction, "weight_fraction", 1.0, "Weight for fraction of track played")
	topTracksCmd.Flags().Float64Var(&weightStart, "weight_start", 1.0, "Weight for how the stream started")
	topTracksCmd.Flags().Float64Var(&weightEnd, "weight_end", 1.0, "Weight for how the stream ended")
	topTracksCmd.Flags().Float64Var(&weightSkip, "weight_skip", 1.0, "Penalty weight for skipped streams")
	topTracksCmd.Flags().Float64Var(&weightSave, "weight_save", 1.0, "Bonus weight for saved tracks")
}

func topTracksWeights() analysis.Weights {
	return analysis.Weights{
		Fraction: weightFraction,
		Start:    weightStart,
		End:      weightEnd,
		Skip:     weightSkip,
		Save:     weightSave,
	}
}

func printTopTracks(out io.Writer, dbPath string, args []string) error {
	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	start, end, err := resolveDateRange(db, args)
	if err != nil {
		return err
	}

	scored, summaries, err := runPipeline(db, start, end, topTracksWeights(), topTracksShrinkage)
	if err != nil {
		return err
	}

	n := topTracksNumber
	if n > len(summaries) {
		n = len(summaries)
	}
	selected := make([]analysis.TrackSummary, 0, n)
	if topTracksBottom {
		for i := len(summaries) - 1; i >= len(summaries)-n; i-- {
			selected = append(selected, summaries[i])
		}
	} else {
		selected = append(selected, summaries[:n]...)
	}

	which := "most"
	if topTracksBottom {
		which = "least"
	}
	fmt.Fprintf(out, "Period: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Fprintf(out, "Streams: %d, tracks: %d\n", len(scored), len(summaries))
	fmt.Fprintf(out, "Top %d %s enjoyed tracks:\n", n, which)

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Rank", "Track", "Artist", "Plays", "Score"})
	for i, summary := range selected {
		row := []string{
			strconv.Itoa(i + 1),
			summary.TrackName,
			summary.Artist,
			strconv.FormatInt(summary.PlayCount, 10),
			fmt.Sprintf("%.3f", summary.AdjustedEnjoyment),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	return nil
}

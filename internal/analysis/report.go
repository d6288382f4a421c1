package analysis

import (
	"sort"
	"time"
)

// Report is the top-level structure of the enjoyment report.
type Report struct {
	Metadata     ReportMetadata `yaml:"report_metadata"`
	TopTracks    []TrackRank    `yaml:"top_tracks"`
	BottomTracks []TrackRank    `yaml:"least_enjoyed_tracks"`
	TopByYear    []YearRanking  `yaml:"top_tracks_by_year"`
}

type ReportMetadata struct {
	GeneratedDate string  `yaml:"generated_date"`
	TotalStreams  int     `yaml:"total_streams"`
	TotalTracks   int     `yaml:"total_tracks"`
	GlobalMean    float64 `yaml:"global_mean_enjoyment"`
	Shrinkage     float64 `yaml:"shrinkage"`
}

type TrackRank struct {
	Rank          int     `yaml:"rank"`
	Track         string  `yaml:"track"`
	Artist        string  `yaml:"artist"`
	PlayCount     int64   `yaml:"play_count"`
	AdjustedScore float64 `yaml:"adjusted_score"`
}

// YearRanking holds the top tracks among those first listened to in a given
// year.
type YearRanking struct {
	Year   int         `yaml:"year"`
	Tracks []TrackRank `yaml:"tracks"`
}

// BuildReport assembles the report from pipeline output. Summaries must
// already be sorted by adjusted score descending, as SummarizeTracks
// returns them. n bounds each section.
func BuildReport(scored []ScoredEvent, summaries []TrackSummary, k float64, n int, now time.Time) *Report {
	report := &Report{
		Metadata: ReportMetadata{
			GeneratedDate: now.Format("2006-01-02"),
			TotalStreams:  len(scored),
			TotalTracks:   len(summaries),
			GlobalMean:    GlobalMean(scored),
			Shrinkage:     k,
		},
	}

	report.TopTracks = rankTracks(topN(summaries, n))
	report.BottomTracks = rankTracks(bottomN(summaries, n))

	byYear := make(map[int][]TrackSummary)
	for _, s := range summaries {
		year := s.FirstListen.Year()
		byYear[year] = append(byYear[year], s)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	// Recent years first.
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	for _, year := range years {
		report.TopByYear = append(report.TopByYear, YearRanking{
			Year:   year,
			Tracks: rankTracks(topN(byYear[year], n)),
		})
	}

	return report
}

func topN(summaries []TrackSummary, n int) []TrackSummary {
	if len(summaries) > n {
		return summaries[:n]
	}
	return summaries
}

func bottomN(summaries []TrackSummary, n int) []TrackSummary {
	if len(summaries) > n {
		summaries = summaries[len(summaries)-n:]
	}
	// Least enjoyed first.
	out := make([]TrackSummary, len(summaries))
	for i, s := range summaries {
		out[len(summaries)-1-i] = s
	}
	return out
}

func rankTracks(summaries []TrackSummary) []TrackRank {
	ranks := make([]TrackRank, 0, len(summaries))
	for i, s := range summaries {
		ranks = append(ranks, TrackRank{
			Rank:          i + 1,
			Track:         s.TrackName,
			Artist:        s.Artist,
			PlayCount:     s.PlayCount,
			AdjustedScore: s.AdjustedEnjoyment,
		})
	}
	return ranks
}

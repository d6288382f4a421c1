package analysis

import (
	"testing"
	"time"
)

func TestBuildReport(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	y2022 := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	y2023 := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)

	summaries := []TrackSummary{
		{TrackKey: "a", TrackName: "A", Artist: "X", PlayCount: 10, AdjustedEnjoyment: 0.9, FirstListen: y2022},
		{TrackKey: "b", TrackName: "B", Artist: "X", PlayCount: 5, AdjustedEnjoyment: 0.7, FirstListen: y2023},
		{TrackKey: "c", TrackName: "C", Artist: "Y", PlayCount: 2, AdjustedEnjoyment: 0.4, FirstListen: y2023},
	}
	scored := make([]ScoredEvent, 17)

	report := BuildReport(scored, summaries, 5, 2, now)

	if report.Metadata.TotalStreams != 17 {
		t.Errorf("TotalStreams = %d, want 17", report.Metadata.TotalStreams)
	}
	if report.Metadata.TotalTracks != 3 {
		t.Errorf("TotalTracks = %d, want 3", report.Metadata.TotalTracks)
	}
	if report.Metadata.GeneratedDate != "2024-06-01" {
		t.Errorf("GeneratedDate = %q", report.Metadata.GeneratedDate)
	}

	if len(report.TopTracks) != 2 {
		t.Fatalf("got %d top tracks, want 2", len(report.TopTracks))
	}
	if report.TopTracks[0].Track != "A" || report.TopTracks[0].Rank != 1 {
		t.Errorf("top track = %+v, want A at rank 1", report.TopTracks[0])
	}

	if len(report.BottomTracks) != 2 {
		t.Fatalf("got %d bottom tracks, want 2", len(report.BottomTracks))
	}
	// Least enjoyed first.
	if report.BottomTracks[0].Track != "C" {
		t.Errorf("bottom track = %+v, want C first", report.BottomTracks[0])
	}

	if len(report.TopByYear) != 2 {
		t.Fatalf("got %d years, want 2", len(report.TopByYear))
	}
	// Recent years first.
	if report.TopByYear[0].Year != 2023 || report.TopByYear[1].Year != 2022 {
		t.Errorf("year order = %d, %d; want 2023, 2022", report.TopByYear[0].Year, report.TopByYear[1].Year)
	}
	if len(report.TopByYear[0].Tracks) != 2 {
		t.Errorf("got %d tracks for 2023, want 2", len(report.TopByYear[0].Tracks))
	}
	if report.TopByYear[0].Tracks[0].Track != "B" {
		t.Errorf("best 2023 track = %+v, want B", report.TopByYear[0].Tracks[0])
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil, nil, 5, 10, time.Now())
	if report.Metadata.TotalStreams != 0 || report.Metadata.TotalTracks != 0 {
		t.Errorf("unexpected totals: %+v", report.Metadata)
	}
	if len(report.TopTracks) != 0 || len(report.BottomTracks) != 0 || len(report.TopByYear) != 0 {
		t.Error("empty input should produce empty sections")
	}
}

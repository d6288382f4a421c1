package analysis

import (
	"math"
	"testing"
)

func TestScoreEventsDefaultWeights(t *testing.T) {
	// A full natural play of a saved track: 1.0 + 0 + 1.0 - 0 + 1.0 = 3.0.
	events := []StreamEvent{
		{
			TrackKey:       "a",
			FractionPlayed: 1.0,
			ReasonEnd:      ReasonTrackDone,
			Saved:          true,
		},
	}

	scored := ScoreEvents(events, DefaultWeights())
	if len(scored) != 1 {
		t.Fatalf("got %d events, want 1", len(scored))
	}
	if scored[0].Enjoyment != 3.0 {
		t.Errorf("Enjoyment = %v, want 3.0", scored[0].Enjoyment)
	}
}

func TestScoreEventsSkipPenalty(t *testing.T) {
	events := []StreamEvent{
		{TrackKey: "a", FractionPlayed: 0.1, ReasonEnd: ReasonFwdBtn, Skipped: true},
	}

	scored := ScoreEvents(events, DefaultWeights())
	// 0.1 + 0 - 1.0 - 1.0 + 0 = -1.9
	if math.Abs(scored[0].Enjoyment-(-1.9)) > 1e-9 {
		t.Errorf("Enjoyment = %v, want -1.9", scored[0].Enjoyment)
	}
}

func TestScoreEventsZeroWeightRemovesSignal(t *testing.T) {
	events := []StreamEvent{
		{TrackKey: "a", FractionPlayed: 0.5, ReasonEnd: ReasonFwdBtn, Skipped: true, Saved: true},
	}

	w := DefaultWeights()
	w.Skip = 0
	w.Save = 0

	scored := ScoreEvents(events, w)
	// 0.5 - 1.0, with skip and save contributions removed.
	if math.Abs(scored[0].Enjoyment-(-0.5)) > 1e-9 {
		t.Errorf("Enjoyment = %v, want -0.5", scored[0].Enjoyment)
	}
}

func TestScoreEventsWeightScalesLinearly(t *testing.T) {
	events := []StreamEvent{
		{TrackKey: "a", FractionPlayed: 1.0, ReasonEnd: ReasonTrackDone},
	}

	w := DefaultWeights()
	w.End = 2.0

	scored := ScoreEvents(events, w)
	// 1.0 + 2*1.0 = 3.0
	if scored[0].Enjoyment != 3.0 {
		t.Errorf("Enjoyment = %v, want 3.0", scored[0].Enjoyment)
	}
}

func TestNormaliseScoresBounds(t *testing.T) {
	var events []ScoredEvent
	for i := 0; i < 200; i++ {
		events = append(events, ScoredEvent{Enjoyment: float64(i) / 100})
	}

	out := NormaliseScores(events)
	for i, e := range out {
		if e.EnjoymentNorm < 0 || e.EnjoymentNorm > 1 {
			t.Errorf("event %d EnjoymentNorm = %v, out of [0, 1]", i, e.EnjoymentNorm)
		}
	}

	// The pre-clip extremes map to the bounds.
	if out[0].EnjoymentNorm != 0 {
		t.Errorf("minimum maps to %v, want 0", out[0].EnjoymentNorm)
	}
	if out[len(out)-1].EnjoymentNorm != 1 {
		t.Errorf("maximum maps to %v, want 1", out[len(out)-1].EnjoymentNorm)
	}
}

func TestNormaliseScoresClipsOutliers(t *testing.T) {
	// 1000 ordinary scores and one extreme listen.
	var events []ScoredEvent
	for i := 0; i < 1000; i++ {
		events = append(events, ScoredEvent{Enjoyment: 1.0 + float64(i)*0.01})
	}
	events = append(events, ScoredEvent{Enjoyment: 1000})

	out := NormaliseScores(events)

	// The outlier lands on the upper bound rather than stretching the scale:
	// the best ordinary scores must stay close to it.
	var secondHighest float64
	for _, e := range out[:1000] {
		if e.EnjoymentNorm > secondHighest {
			secondHighest = e.EnjoymentNorm
		}
	}
	if out[1000].EnjoymentNorm != 1 {
		t.Errorf("outlier EnjoymentNorm = %v, want 1", out[1000].EnjoymentNorm)
	}
	if secondHighest < 0.9 {
		t.Errorf("best ordinary score = %v; outlier dominated the scale", secondHighest)
	}
}

func TestNormaliseScoresPreservesOrder(t *testing.T) {
	events := []ScoredEvent{
		{Enjoyment: 0.2}, {Enjoyment: 1.4}, {Enjoyment: -0.5}, {Enjoyment: 2.8}, {Enjoyment: 0.9},
	}

	out := NormaliseScores(events)
	for i := range out {
		for j := range out {
			if events[i].Enjoyment < events[j].Enjoyment && out[i].EnjoymentNorm > out[j].EnjoymentNorm {
				t.Errorf("order inverted: raw %v < %v but norm %v > %v",
					events[i].Enjoyment, events[j].Enjoyment, out[i].EnjoymentNorm, out[j].EnjoymentNorm)
			}
		}
	}
}

func TestNormaliseScoresDegenerate(t *testing.T) {
	events := []ScoredEvent{{Enjoyment: 2.0}, {Enjoyment: 2.0}, {Enjoyment: 2.0}}

	out := NormaliseScores(events)
	for i, e := range out {
		if e.EnjoymentNorm != 0 {
			t.Errorf("event %d EnjoymentNorm = %v, want 0 for a constant distribution", i, e.EnjoymentNorm)
		}
	}
}

func TestNormaliseScoresEmpty(t *testing.T) {
	if out := NormaliseScores(nil); len(out) != 0 {
		t.Errorf("got %d events, want 0", len(out))
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	cases := []struct {
		p    float64
		want float64
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{25, 2.5},
	}
	for _, tc := range cases {
		if got := percentile(sorted, tc.p); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("percentile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}

	if got := percentile([]float64{42}, 99); got != 42 {
		t.Errorf("single-element percentile = %v, want 42", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("empty percentile = %v, want 0", got)
	}
}

package analysis

import (
	"math"
	"sort"
)

// ScoreEvents computes the raw enjoyment score for every event:
//
//	fraction*Wf + start*Ws + end*We - skipped*Wskip + saved*Wsave
//
// Each score is a pure function of its own event; no cross-event state.
func ScoreEvents(events []StreamEvent, w Weights) []ScoredEvent {
	scored := make([]ScoredEvent, 0, len(events))
	for _, e := range events {
		s := ScoredEvent{StreamEvent: e}
		s.StartScore = StartReasonScore(e.ReasonStart)
		s.EndScore = EndReasonScore(e.ReasonEnd, e.FractionPlayed)

		score := e.FractionPlayed*w.Fraction + s.StartScore*w.Start + s.EndScore*w.End
		if e.Skipped {
			score -= w.Skip
		}
		if e.Saved {
			score += w.Save
		}
		s.Enjoyment = score

		scored = append(scored, s)
	}
	return scored
}

// NormaliseScores clips raw enjoyment scores to the population's 1st and
// 99th percentiles, then min-max rescales the clipped values to [0, 1]. A
// single extreme listen cannot dominate the ranking, but relative order
// within the bulk of the distribution is preserved.
//
// Percentiles and min/max are population statistics, so this operates over
// the whole batch: one pass to collect, one pass to rescale.
func NormaliseScores(events []ScoredEvent) []ScoredEvent {
	if len(events) == 0 {
		return events
	}

	sorted := make([]float64, len(events))
	for i, e := range events {
		sorted[i] = e.Enjoyment
	}
	sort.Float64s(sorted)

	lo := percentile(sorted, 1)
	hi := percentile(sorted, 99)
	span := hi - lo

	out := make([]ScoredEvent, len(events))
	for i, e := range events {
		clipped := math.Min(math.Max(e.Enjoyment, lo), hi)
		if span > 0 {
			e.EnjoymentNorm = (clipped - lo) / span
		} else {
			// Degenerate distribution: every score identical.
			e.EnjoymentNorm = 0
		}
		out[i] = e
	}
	return out
}

// percentile computes the p-th percentile of an ascending-sorted slice using
// linear interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

package analysis

import "sort"

// SummarizeTracks groups scored events by track and computes per-track
// statistics plus a Bayesian-shrunk enjoyment score.
//
// The adjusted score mixes k virtual plays at the global mean into each
// track's empirical mean:
//
//	adjusted = (mean*plays + k*globalMean) / (plays + k)
//
// Tracks with few plays regress toward the global mean; tracks with many
// plays keep their own. The global mean is taken over all events, not per
// group. Results are sorted by adjusted score descending. An empty input
// produces an empty output.
func SummarizeTracks(events []ScoredEvent, catalog Catalog, k float64) []TrackSummary {
	if len(events) == 0 {
		return nil
	}

	var globalMean float64
	for _, e := range events {
		globalMean += e.EnjoymentNorm
	}
	globalMean /= float64(len(events))

	groups := make(map[string]*TrackSummary)
	sums := make(map[string]float64)
	for _, e := range events {
		s, ok := groups[e.TrackKey]
		if !ok {
			s = &TrackSummary{
				TrackKey:    e.TrackKey,
				TrackName:   e.TrackName,
				Artist:      e.Artist,
				FirstListen: e.StreamedAt,
				LastListen:  e.StreamedAt,
			}
			if info, found := catalog[e.TrackKey]; found {
				if info.Name != "" {
					s.TrackName = info.Name
				}
				if info.Artist != "" {
					s.Artist = info.Artist
				}
				s.Album = info.Album
				s.ArtworkURL = info.ArtworkURL
			}
			groups[e.TrackKey] = s
		}

		s.PlayCount++
		sums[e.TrackKey] += e.EnjoymentNorm
		if e.StreamedAt.Before(s.FirstListen) {
			s.FirstListen = e.StreamedAt
		}
		if e.StreamedAt.After(s.LastListen) {
			s.LastListen = e.StreamedAt
		}
	}

	out := make([]TrackSummary, 0, len(groups))
	for key, s := range groups {
		plays := float64(s.PlayCount)
		s.MeanEnjoyment = sums[key] / plays
		s.AdjustedEnjoyment = (s.MeanEnjoyment*plays + k*globalMean) / (plays + k)
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AdjustedEnjoyment != out[j].AdjustedEnjoyment {
			return out[i].AdjustedEnjoyment > out[j].AdjustedEnjoyment
		}
		if out[i].PlayCount != out[j].PlayCount {
			return out[i].PlayCount > out[j].PlayCount
		}
		return out[i].TrackKey < out[j].TrackKey
	})
	return out
}

// GlobalMean returns the mean normalized enjoyment over all events, the
// prior used by SummarizeTracks. Zero for an empty input.
func GlobalMean(events []ScoredEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	var sum float64
	for _, e := range events {
		sum += e.EnjoymentNorm
	}
	return sum / float64(len(events))
}

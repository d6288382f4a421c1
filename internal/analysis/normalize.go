package analysis

import (
	"fmt"
	"math"
	"time"
)

// fractionPlayed computes the fraction of the track's duration covered by a
// single listen. A missing or zero play time yields 0 rather than an
// undefined value, and an invalid duration yields 0 rather than +Inf, so no
// NaN or infinity ever enters the pipeline.
func fractionPlayed(msPlayed, durationMs int64) float64 {
	if msPlayed <= 0 {
		return 0
	}
	if durationMs <= 0 {
		return 0
	}
	return float64(msPlayed) / float64(durationMs)
}

// Normalize computes FractionPlayed for every event and expands merged
// long-stream records into discrete single listens.
//
// A record with a fraction above 1.0 is a known artifact of the source data:
// several consecutive full plays folded into one logged event. It is split
// into ceil(fraction) synthetic events, all but the last covering the full
// track. Events with a fraction at or below 1.0 pass through unchanged, so
// running Normalize on its own output is a no-op.
//
// The returned error indicates the expansion produced a different number of
// events than the ceil sum requires. That is a defect in this code, not a
// data problem, and callers should treat it as fatal.
func Normalize(events []StreamEvent) ([]StreamEvent, error) {
	out := make([]StreamEvent, 0, len(events))

	var wantExpanded, gotExpanded int
	for _, e := range events {
		e.FractionPlayed = fractionPlayed(e.MsPlayed, e.DurationMs)
		if e.FractionPlayed <= 1.0 {
			out = append(out, e)
			continue
		}

		n := int(math.Ceil(e.FractionPlayed))
		expanded := expandLongStream(e, n)
		wantExpanded += n
		gotExpanded += len(expanded)
		out = append(out, expanded...)
	}

	if gotExpanded != wantExpanded {
		return nil, fmt.Errorf("long-stream expansion produced %d events, expected %d", gotExpanded, wantExpanded)
	}
	return out, nil
}

// expandLongStream splits one merged record into n synthetic listens. The
// first keeps the original start reason; continuations start and end with
// "trackdone". Timestamps are offset by one track length per repeat to keep
// a plausible chronological order within the merged window.
func expandLongStream(e StreamEvent, n int) []StreamEvent {
	out := make([]StreamEvent, 0, n)

	// The final partial play. For an exact multiple (e.g. 2.0) this is a
	// full play, not zero.
	remainder := e.FractionPlayed - float64(n-1)

	for i := 0; i < n; i++ {
		s := e
		s.StreamedAt = e.StreamedAt.Add(time.Duration(int64(i)*e.DurationMs) * time.Millisecond)
		if i > 0 {
			s.ReasonStart = ReasonTrackDone
		}
		if i < n-1 {
			s.FractionPlayed = 1.0
			s.MsPlayed = e.DurationMs
			s.ReasonEnd = ReasonTrackDone
		} else {
			s.FractionPlayed = remainder
			s.MsPlayed = int64(remainder * float64(e.DurationMs))
		}
		out = append(out, s)
	}
	return out
}

// ApplyCatalog sets the Saved flag and fills in display metadata from the
// metadata side table. Events whose track is absent from the catalog are
// left as-is: not saved, history-supplied names only.
func ApplyCatalog(events []StreamEvent, catalog Catalog) []StreamEvent {
	out := make([]StreamEvent, len(events))
	for i, e := range events {
		if info, ok := catalog[e.TrackKey]; ok {
			e.Saved = len(info.Playlists) > 0
			if e.TrackName == "" {
				e.TrackName = info.Name
			}
			if e.Artist == "" {
				e.Artist = info.Artist
			}
			if e.DurationMs == 0 {
				e.DurationMs = info.DurationMs
			}
		}
		out[i] = e
	}
	return out
}

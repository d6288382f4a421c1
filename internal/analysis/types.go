package analysis

import "time"

// Playback reason vocabulary observed in Spotify extended streaming history.
// Reasons outside this set are treated as neutral.
const (
	ReasonTrackDone = "trackdone"
	ReasonEndPlay   = "endplay"
	ReasonFwdBtn    = "fwdbtn"
	ReasonBackBtn   = "backbtn"
	ReasonNextBtn   = "nextbtn"
	ReasonClickRow  = "clickrow"
	ReasonPlayBtn   = "playbtn"
)

const (
	ScoreVeryPositive         = 1.5
	ScorePositive             = 1.0
	ScoreNegative             = -1.0
	ScoreNegativeHighFraction = -0.5
	ScoreNeutral              = 0.0

	// Fraction played above which an early skip gets the softened penalty.
	HighFractionThreshold = 0.85
)

// StreamEvent is one logged listen of a track, possibly partial. Records are
// immutable facts; everything derived from them is recomputed each run.
type StreamEvent struct {
	TrackKey   string
	TrackName  string
	Artist     string
	StreamedAt time.Time
	MsPlayed   int64
	DurationMs int64

	// FractionPlayed is MsPlayed / DurationMs, set by Normalize.
	// Always in [0, 1] after normalization.
	FractionPlayed float64

	ReasonStart string
	ReasonEnd   string
	Skipped     bool

	// Saved is true when the track appears in at least one playlist or in
	// the liked songs collection. Set by ApplyCatalog.
	Saved bool
}

// ScoredEvent is a StreamEvent with its enjoyment scores attached.
type ScoredEvent struct {
	StreamEvent

	StartScore float64
	EndScore   float64

	// Enjoyment is the raw weighted score; EnjoymentNorm is the same score
	// after population-wide clipping and rescaling to [0, 1].
	Enjoyment     float64
	EnjoymentNorm float64
}

// TrackInfo is the metadata side table entry for one track, keyed by the
// Spotify track ID.
type TrackInfo struct {
	ID         string
	Name       string
	Artist     string
	Album      string
	DurationMs int64
	ArtworkURL string
	Popularity int

	// Playlists holds the names of every playlist (including "Liked Songs")
	// the track appears in.
	Playlists []string
}

// Catalog maps track IDs to their metadata. Tracks absent from the catalog
// are inferred as not saved and carry no display metadata.
type Catalog map[string]TrackInfo

// TrackSummary aggregates all scored listens of one track.
type TrackSummary struct {
	TrackKey   string
	TrackName  string
	Artist     string
	Album      string
	ArtworkURL string

	PlayCount   int64
	FirstListen time.Time
	LastListen  time.Time

	// MeanEnjoyment is the arithmetic mean of the normalized enjoyment
	// scores. AdjustedEnjoyment shrinks that mean toward the global average,
	// so tracks with few plays cannot dominate the ranking.
	MeanEnjoyment     float64
	AdjustedEnjoyment float64
}

// Weights scales each term of the raw enjoyment score. A weight of zero
// removes that signal entirely.
type Weights struct {
	Fraction float64
	Start    float64
	End      float64
	Skip     float64
	Save     float64
}

// DefaultWeights returns the standard weighting: every signal counts equally.
func DefaultWeights() Weights {
	return Weights{
		Fraction: 1.0,
		Start:    1.0,
		End:      1.0,
		Skip:     1.0,
		Save:     1.0,
	}
}

// DefaultShrinkage is the default number of virtual plays at the global
// average mixed into each track's score.
const DefaultShrinkage = 5.0

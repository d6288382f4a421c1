package analysis

import "strings"

var positiveStartReasons = map[string]bool{
	ReasonClickRow: true,
	ReasonBackBtn:  true,
	ReasonPlayBtn:  true,
}

var positiveEndReasons = map[string]bool{
	ReasonTrackDone: true,
	ReasonEndPlay:   true,
}

var negativeEndReasons = map[string]bool{
	ReasonFwdBtn:   true,
	ReasonBackBtn:  true,
	ReasonNextBtn:  true,
	ReasonClickRow: true,
}

// StartReasonScore scores how a listen began. Restarting a track with the
// back button is the strongest positive signal; any other deliberate start
// (clicking a row, pressing play) is positive; everything else, including an
// unknown or empty reason, is neutral.
func StartReasonScore(reason string) float64 {
	if positiveStartReasons[reason] {
		if reason == ReasonBackBtn {
			return ScoreVeryPositive
		}
		return ScorePositive
	}
	return ScoreNeutral
}

// EndReasonScore scores how a listen ended. Natural completion is positive.
// A skip is a full penalty, softened when the listener had nearly finished
// the track. The back button always takes the full penalty regardless of
// fraction played. Unknown reasons are neutral.
func EndReasonScore(reason string, fractionPlayed float64) float64 {
	reason = strings.ToLower(reason)

	if positiveEndReasons[reason] {
		return ScorePositive
	}
	if negativeEndReasons[reason] {
		if reason != ReasonBackBtn && fractionPlayed > HighFractionThreshold {
			return ScoreNegativeHighFraction
		}
		return ScoreNegative
	}
	return ScoreNeutral
}

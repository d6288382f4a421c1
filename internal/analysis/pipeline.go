package analysis

// Run executes the full scoring pipeline over raw stream events: catalog
// join, normalization, per-event scoring, population normalization, and
// per-track summarization. It returns both output tables of the pipeline:
// the scored event table and the ranked track summary table.
//
// The pipeline is single-threaded and deterministic over a fixed input. An
// empty input yields empty outputs.
func Run(events []StreamEvent, catalog Catalog, w Weights, k float64) ([]ScoredEvent, []TrackSummary, error) {
	events = ApplyCatalog(events, catalog)

	normalized, err := Normalize(events)
	if err != nil {
		return nil, nil, err
	}

	scored := NormaliseScores(ScoreEvents(normalized, w))
	summaries := SummarizeTracks(scored, catalog, k)
	return scored, summaries, nil
}

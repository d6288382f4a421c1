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
	"time"

	"github.com/ademuri/spotify-tools/internal/analysis"
	"github.com/ademuri/spotify-tools/internal/store"
)

// runPipeline loads streams in [start, end) and runs the full enjoyment
// pipeline over them.
func runPipeline(s *store.Store, start, end time.Time, weights analysis.Weights, shrinkage float64) ([]analysis.ScoredEvent, []analysis.TrackSummary, error) {
	events, err := s.GetStreams(start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("loading streams: %w", err)
	}
	if len(events) == 0 {
		return nil, nil, fmt.Errorf("No streams found between %s and %s - run import first.",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	catalog, err := s.GetCatalog()
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	scored, summaries, err := analysis.Run(events, catalog, weights, shrinkage)
	if err != nil {
		return nil, nil, fmt.Errorf("scoring streams: %w", err)
	}
	return scored, summaries, nil
}

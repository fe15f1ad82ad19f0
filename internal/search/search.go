package search

import (
	"context"
	"fmt"
)

// Transcripts finds transcript segments whose text contains the query,
// case-insensitively.
func (s *implSearch) Transcripts(ctx context.Context, query string, opts Options) (*TranscriptResults, error) {
	segments, err := s.store.SearchTranscripts(ctx, query, opts.MeetingID)
	if err != nil {
		return nil, fmt.Errorf("search transcripts: %w", err)
	}

	total := len(segments)
	segments = segments[:min(total, limit(opts))]

	return &TranscriptResults{Segments: segments, TotalResults: total}, nil
}

// Summaries finds summary records whose content contains the query,
// case-insensitively.
func (s *implSearch) Summaries(ctx context.Context, query string, opts Options) (*SummaryResults, error) {
	summaries, err := s.store.SearchSummaries(ctx, query, opts.MeetingID)
	if err != nil {
		return nil, fmt.Errorf("search summaries: %w", err)
	}

	total := len(summaries)
	summaries = summaries[:min(total, limit(opts))]

	return &SummaryResults{Summaries: summaries, TotalResults: total}, nil
}

// Visual is a capability stub: until a vector-index backend is
// integrated it always returns an empty result set. This is a documented
// limitation, not a bug.
func (s *implSearch) Visual(ctx context.Context, queryEmbedding []byte, opts Options) (*CaptureResults, error) {
	s.logger.Debug(ctx, "Visual search requested (%d-byte embedding); no vector index wired, returning empty", len(queryEmbedding))
	return &CaptureResults{Captures: nil, TotalResults: 0}, nil
}

func limit(opts Options) int {
	if opts.Limit <= 0 {
		return defaultLimit
	}
	return opts.Limit
}

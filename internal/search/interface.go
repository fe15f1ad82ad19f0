package search

import (
	"context"

	"github.com/romabozhanovgithub/callyfy/internal/store"
)

// Options narrows a query to one meeting and caps result size. A zero
// MeetingID searches all meetings. Results past Limit are truncated,
// not paginated.
type Options struct {
	MeetingID string
	Limit     int
}

// TranscriptResults holds transcript matches.
type TranscriptResults struct {
	Segments     []store.TranscriptSegment
	TotalResults int
}

// SummaryResults holds summary matches.
type SummaryResults struct {
	Summaries    []store.SummaryRecord
	TotalResults int
}

// CaptureResults holds screen-capture matches.
type CaptureResults struct {
	Captures     []store.ScreenCapture
	TotalResults int
}

// Search answers text queries over transcripts and summaries, and
// (eventually) visual similarity queries over capture embeddings.
type Search interface {
	Transcripts(ctx context.Context, query string, opts Options) (*TranscriptResults, error)
	Summaries(ctx context.Context, query string, opts Options) (*SummaryResults, error)
	Visual(ctx context.Context, queryEmbedding []byte, opts Options) (*CaptureResults, error)
}

package summarize

import (
	"context"

	"github.com/romabozhanovgithub/callyfy/internal/store"
)

// Kind is the requested summary flavor. The set is closed.
type Kind string

const (
	KindRelevant Kind = store.SummaryRelevant
	KindRolling  Kind = store.SummaryRolling
	KindFinal    Kind = store.SummaryFinal
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRelevant, KindRolling, KindFinal:
		return true
	}
	return false
}

// Backend is the summarization contract. Implementations produce the
// textual content for a meeting and kind.
type Backend interface {
	Summarize(ctx context.Context, meetingID string, kind Kind) (string, error)
	ModelName() string
}

// Summarization appends summary records for meetings.
type Summarization interface {
	Generate(ctx context.Context, meetingID string, kind Kind) (*store.SummaryRecord, error)
}

package summarize

import (
	"context"
	"fmt"

	"github.com/romabozhanovgithub/callyfy/internal/pipeline"
	"github.com/romabozhanovgithub/callyfy/internal/store"
)

// Generate asks the backend for summary content and appends a new
// SummaryRecord. Earlier summaries of the same kind are kept as history,
// never replaced.
func (s *implSummarization) Generate(ctx context.Context, meetingID string, kind Kind) (*store.SummaryRecord, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown summary kind %q", kind)
	}

	content, err := s.backend.Summarize(ctx, meetingID, kind)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageInference, fmt.Errorf("summarize: %w", err))
	}

	record := &store.SummaryRecord{
		MeetingID: meetingID,
		Kind:      string(kind),
		Content:   content,
	}
	if name := s.backend.ModelName(); name != "" {
		record.ModelName = &name
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}
	defer uow.Rollback()

	if err := uow.Add(ctx, record); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}

	s.logger.Info(ctx, "Appended %s summary %s for meeting %s", kind, record.ID, meetingID)
	return record, nil
}

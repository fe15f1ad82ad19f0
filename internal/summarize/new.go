package summarize

import (
	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/internal/store"
)

type implSummarization struct {
	backend Backend
	store   *store.Store
	logger  logger.Logger
}

// New creates a new Summarization instance.
func New(backend Backend, st *store.Store, log logger.Logger) Summarization {
	return &implSummarization{
		backend: backend,
		store:   st,
		logger:  log,
	}
}

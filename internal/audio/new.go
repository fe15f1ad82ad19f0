package audio

import (
	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/internal/store"
)

type implAudio struct {
	capture    CaptureBackend
	recognizer Recognizer
	store      *store.Store
	logger     logger.Logger
}

// New creates a new Audio pipeline instance.
func New(capture CaptureBackend, recognizer Recognizer, st *store.Store, log logger.Logger) Audio {
	return &implAudio{
		capture:    capture,
		recognizer: recognizer,
		store:      st,
		logger:     log,
	}
}

package vision

import (
	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/internal/store"
)

type implVision struct {
	grabber ScreenGrabber
	vlm     VisionModel
	store   *store.Store
	logger  logger.Logger
}

// New creates a new Vision pipeline instance.
func New(grabber ScreenGrabber, vlm VisionModel, st *store.Store, log logger.Logger) Vision {
	return &implVision{
		grabber: grabber,
		vlm:     vlm,
		store:   st,
		logger:  log,
	}
}

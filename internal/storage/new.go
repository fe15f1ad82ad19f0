package storage

import (
	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/internal/store"
)

type implStorage struct {
	baseDir       string
	screenDirName string
	store         *store.Store
	logger        logger.Logger
}

// New creates a new Storage instance rooted at baseDir.
func New(baseDir, screenDirName string, st *store.Store, log logger.Logger) Storage {
	if screenDirName == "" {
		screenDirName = "screens"
	}
	return &implStorage{
		baseDir:       baseDir,
		screenDirName: screenDirName,
		store:         st,
		logger:        log,
	}
}

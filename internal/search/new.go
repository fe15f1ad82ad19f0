package search

import (
	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/internal/store"
)

const defaultLimit = 50

type implSearch struct {
	store  *store.Store
	logger logger.Logger
}

// New creates a new Search instance.
func New(st *store.Store, log logger.Logger) Search {
	return &implSearch{
		store:  st,
		logger: log,
	}
}

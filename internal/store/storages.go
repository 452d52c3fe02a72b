package store

import "github.com/kheti-sahayak/logbook-sync/internal/logger"

type Storages struct {
	LogbookStorage LogbookStorage
}

func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		LogbookStorage: NewLogbookRepository(db, log),
	}
}

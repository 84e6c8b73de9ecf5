package sqlite

import (
	"fmt"

	gormhist "github.com/barekit/voyager/pkg/history/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New creates a new SQLite history store.
func New(dsn string) (*gormhist.History, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return gormhist.New(db)
}

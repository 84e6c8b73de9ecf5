package postgres

import (
	"fmt"

	gormhist "github.com/barekit/voyager/pkg/history/gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New creates a new Postgres history store.
func New(dsn string) (*gormhist.History, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return gormhist.New(db)
}

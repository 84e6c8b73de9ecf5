package mssql

import (
	"fmt"

	gormhist "github.com/barekit/voyager/pkg/history/gorm"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// New creates a new MSSQL history store.
func New(dsn string) (*gormhist.History, error) {
	db, err := gorm.Open(sqlserver.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open mssql: %w", err)
	}
	return gormhist.New(db)
}

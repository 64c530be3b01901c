package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/kanoon-backend/internal/domain/artifact"
	"github.com/yungbote/kanoon-backend/internal/domain/user"
)

// Models lists every table owned by the service.
func Models() []any {
	return []any{
		&user.User{},
		&artifact.Record{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

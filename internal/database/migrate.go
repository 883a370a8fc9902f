package database

import (
	"garland/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Ordered parents-first so AutoMigrate creates referenced tables before
// their dependents.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Tree{},
		&models.TreeMembership{},
		&models.Note{},
		&models.Comment{},
		&models.Like{},
		&models.AdminLog{},
	}
}

// Migrate applies the schema for all persistent models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

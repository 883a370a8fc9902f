// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"garland/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumTrees    int
	ShouldClean bool
	// Deterministic makes the generators reproducible for tests.
	Deterministic bool
}

// Run seeds the database with demo users, trees, notes, comments, and likes.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumTrees <= 0 {
		opts.NumTrees = 8
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}

	admin, err := f.CreateAdmin()
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	users = append(users, admin)

	for i := 0; i < opts.NumTrees; i++ {
		owner := users[f.intn(len(users))]
		tree, err := f.CreateTree(owner)
		if err != nil {
			return fmt.Errorf("seeding tree %d: %w", i, err)
		}

		// Fill up to capacity, never past it.
		noteCount := f.intn(models.MaxNotesPerTree + 1)
		for j := 0; j < noteCount; j++ {
			author := users[f.intn(len(users))]
			note, err := f.CreateNote(tree, author)
			if err != nil {
				return fmt.Errorf("seeding note: %w", err)
			}

			for k := 0; k < f.intn(4); k++ {
				if _, err := f.CreateComment(note, users[f.intn(len(users))]); err != nil {
					return fmt.Errorf("seeding comment: %w", err)
				}
			}
			for k := 0; k < f.intn(6); k++ {
				if err := f.CreateLike(note, users[f.intn(len(users))]); err != nil {
					return fmt.Errorf("seeding like: %w", err)
				}
			}
		}
	}

	log.Printf("seeded %d users and %d trees", len(users), opts.NumTrees)
	return nil
}

// Clean removes all seeded data, children first.
func Clean(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.Like{},
		&models.Comment{},
		&models.Note{},
		&models.TreeMembership{},
		&models.AdminLog{},
		&models.Tree{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

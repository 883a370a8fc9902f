package repository

import (
	"context"
	"errors"

	"garland/internal/cache"
	"garland/internal/models"
	"garland/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteRepository defines persistence operations for notes and likes.
type NoteRepository interface {
	// Create admits the note only while the tree holds fewer than
	// models.MaxNotesPerTree notes. The check and the insert run inside
	// one transaction with the tree row locked.
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id uint) (*models.Note, error)
	ListByTree(ctx context.Context, treeID uint, includeHidden bool) ([]models.Note, error)
	// Update mutates message/position for the owning author only.
	Update(ctx context.Context, noteID, userID uint, message string, posX, posY int) error
	// Delete removes the author's note along with its likes and comments.
	Delete(ctx context.Context, noteID, userID uint) error

	Like(ctx context.Context, noteID, userID uint) (liked bool, count int64, err error)
	Unlike(ctx context.Context, noteID, userID uint) (count int64, err error)
	LikeCount(ctx context.Context, noteID uint) (int64, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository returns a new NoteRepository implementation.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tree models.Tree
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&tree, note.TreeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Tree", note.TreeID)
			}
			return models.NewInternalError(err)
		}

		var count int64
		if err := tx.Model(&models.Note{}).Where("tree_id = ?", note.TreeID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count >= models.MaxNotesPerTree {
			return models.NewCapacityError(note.TreeID)
		}

		if err := tx.Create(note).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	switch {
	case err == nil:
		observability.NoteAdmissions.WithLabelValues("admitted").Inc()
		cache.InvalidateTreeNotes(ctx, note.TreeID)
	case models.IsCapacityError(err):
		observability.NoteAdmissions.WithLabelValues("rejected_full").Inc()
	default:
		observability.NoteAdmissions.WithLabelValues("failed").Inc()
	}
	return err
}

func (r *noteRepository) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Note", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &note, nil
}

func (r *noteRepository) ListByTree(ctx context.Context, treeID uint, includeHidden bool) ([]models.Note, error) {
	defer observability.TrackQuery("select", "notes")()

	fetch := func(notes *[]models.Note) error {
		query := r.db.WithContext(ctx).
			Model(&models.Note{}).
			Select("notes.*, users.username AS author, (SELECT COUNT(*) FROM likes WHERE likes.note_id = notes.id) AS like_count").
			Joins("LEFT JOIN users ON users.id = notes.user_id").
			Where("notes.tree_id = ?", treeID).
			Order("notes.created_at ASC")
		if !includeHidden {
			query = query.Where("notes.is_hidden = ?", false)
		}
		if err := query.Find(notes).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var notes []models.Note

	// Only the public view is cacheable; the admin view bypasses the cache.
	if includeHidden {
		if err := fetch(&notes); err != nil {
			return nil, err
		}
		return notes, nil
	}

	err := cache.Aside(ctx, cache.TreeNotesKey(treeID), &notes, cache.TreeNotesTTL, func() error {
		return fetch(&notes)
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, noteID, userID uint, message string, posX, posY int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Note{}).
		Where("id = ? AND user_id = ?", noteID, userID).
		Updates(map[string]interface{}{
			"message": message,
			"pos_x":   posX,
			"pos_y":   posY,
		})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewForbiddenError("note not found or not owned by user")
	}

	var note models.Note
	if err := r.db.WithContext(ctx).Select("tree_id").First(&note, noteID).Error; err == nil {
		cache.InvalidateTreeNotes(ctx, note.TreeID)
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, noteID, userID uint) error {
	var treeID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", noteID, userID).
			First(&note).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewForbiddenError("note not found or not owned by user")
			}
			return models.NewInternalError(err)
		}
		treeID = note.TreeID

		if err := tx.Where("note_id = ?", noteID).Delete(&models.Like{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("note_id = ?", noteID).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Note{}, noteID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateTreeNotes(ctx, treeID)
	cache.InvalidateLikeCount(ctx, noteID)
	return nil
}

func (r *noteRepository) Like(ctx context.Context, noteID, userID uint) (bool, int64, error) {
	if _, err := r.GetByID(ctx, noteID); err != nil {
		return false, 0, err
	}

	like := models.Like{NoteID: noteID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, 0, models.NewInternalError(result.Error)
	}
	liked := result.RowsAffected > 0
	if liked {
		cache.InvalidateLikeCount(ctx, noteID)
	}

	count, err := r.countLikes(ctx, noteID)
	return liked, count, err
}

func (r *noteRepository) Unlike(ctx context.Context, noteID, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", noteID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidateLikeCount(ctx, noteID)
	}
	return r.countLikes(ctx, noteID)
}

func (r *noteRepository) LikeCount(ctx context.Context, noteID uint) (int64, error) {
	var count int64
	err := cache.Aside(ctx, cache.LikeCountKey(noteID), &count, cache.LikeCountTTL, func() error {
		n, err := r.countLikes(ctx, noteID)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	return count, err
}

func (r *noteRepository) countLikes(ctx context.Context, noteID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("note_id = ?", noteID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

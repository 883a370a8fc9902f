// Package service holds business logic that spans more than one model.
package service

import (
	"context"
	"errors"
	"log/slog"

	"garland/internal/cache"
	"garland/internal/middleware"
	"garland/internal/models"
	"garland/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminLogLimit caps how many audit rows a single listing returns.
const AdminLogLimit = 200

// ModerationService applies admin actions. Every action runs in one
// transaction that mutates (or deletes) the target and appends an audit
// row; a failure anywhere rolls the whole action back.
type ModerationService struct {
	db *gorm.DB
}

// NewModerationService returns a new ModerationService.
func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

func (s *ModerationService) logAction(tx *gorm.DB, entry models.AdminLog) error {
	if err := tx.Create(&entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *ModerationService) setNoteHidden(ctx context.Context, adminID, noteID uint, hidden bool, action models.AdminAction) error {
	var treeID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&note, noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Note", noteID)
			}
			return models.NewInternalError(err)
		}
		treeID = note.TreeID

		if err := tx.Model(&note).Update("is_hidden", hidden).Error; err != nil {
			return models.NewInternalError(err)
		}

		return s.logAction(tx, models.AdminLog{
			AdminID:    adminID,
			Action:     action,
			TargetNote: note.ID,
			UserID:     note.UserID,
			NoteID:     note.ID,
		})
	})
	if err != nil {
		return err
	}

	s.recordAction(ctx, action, adminID, noteID)
	cache.InvalidateTreeNotes(ctx, treeID)
	return nil
}

// HideNote hides a note from non-admin readers.
func (s *ModerationService) HideNote(ctx context.Context, adminID, noteID uint) error {
	return s.setNoteHidden(ctx, adminID, noteID, true, models.ActionHideNote)
}

// ShowNote reverses HideNote.
func (s *ModerationService) ShowNote(ctx context.Context, adminID, noteID uint) error {
	return s.setNoteHidden(ctx, adminID, noteID, false, models.ActionShowNote)
}

// DeleteNote removes a note and its likes and comments. The audit row is
// written before the delete, inside the same transaction, so it is recorded
// against the still-existing note.
func (s *ModerationService) DeleteNote(ctx context.Context, adminID, noteID uint) error {
	var treeID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&note, noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Note", noteID)
			}
			return models.NewInternalError(err)
		}
		treeID = note.TreeID

		if err := s.logAction(tx, models.AdminLog{
			AdminID:    adminID,
			Action:     models.ActionDeleteNote,
			TargetNote: note.ID,
			UserID:     note.UserID,
			NoteID:     note.ID,
		}); err != nil {
			return err
		}

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

	s.recordAction(ctx, models.ActionDeleteNote, adminID, noteID)
	cache.InvalidateTreeNotes(ctx, treeID)
	cache.InvalidateLikeCount(ctx, noteID)
	return nil
}

func (s *ModerationService) setCommentHidden(ctx context.Context, adminID, commentID uint, hidden bool, action models.AdminAction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", commentID)
			}
			return models.NewInternalError(err)
		}

		if err := tx.Model(&comment).Update("is_hidden", hidden).Error; err != nil {
			return models.NewInternalError(err)
		}

		return s.logAction(tx, models.AdminLog{
			AdminID:    adminID,
			Action:     action,
			TargetNote: comment.NoteID,
			UserID:     comment.UserID,
			NoteID:     comment.NoteID,
		})
	})
	if err != nil {
		return err
	}
	s.recordAction(ctx, action, adminID, commentID)
	return nil
}

// HideComment hides a comment from non-admin readers.
func (s *ModerationService) HideComment(ctx context.Context, adminID, commentID uint) error {
	return s.setCommentHidden(ctx, adminID, commentID, true, models.ActionHideComment)
}

// ShowComment reverses HideComment.
func (s *ModerationService) ShowComment(ctx context.Context, adminID, commentID uint) error {
	return s.setCommentHidden(ctx, adminID, commentID, false, models.ActionShowComment)
}

// DeleteComment removes a single comment, logging before the delete.
func (s *ModerationService) DeleteComment(ctx context.Context, adminID, commentID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", commentID)
			}
			return models.NewInternalError(err)
		}

		if err := s.logAction(tx, models.AdminLog{
			AdminID:    adminID,
			Action:     models.ActionDeleteComment,
			TargetNote: comment.NoteID,
			UserID:     comment.UserID,
			NoteID:     comment.NoteID,
		}); err != nil {
			return err
		}

		if err := tx.Delete(&models.Comment{}, commentID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.recordAction(ctx, models.ActionDeleteComment, adminID, commentID)
	return nil
}

func (s *ModerationService) setUserBlocked(ctx context.Context, adminID, userID uint, blocked bool, action models.AdminAction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", userID)
			}
			return models.NewInternalError(err)
		}

		if err := tx.Model(&user).Update("is_blocked", blocked).Error; err != nil {
			return models.NewInternalError(err)
		}

		// User actions carry no note reference; both note fields stay 0.
		return s.logAction(tx, models.AdminLog{
			AdminID: adminID,
			Action:  action,
			UserID:  user.ID,
		})
	})
	if err != nil {
		return err
	}
	s.recordAction(ctx, action, adminID, userID)
	return nil
}

// BlockUser prevents a user from authenticating.
func (s *ModerationService) BlockUser(ctx context.Context, adminID, userID uint) error {
	return s.setUserBlocked(ctx, adminID, userID, true, models.ActionBlockUser)
}

// UnblockUser reverses BlockUser.
func (s *ModerationService) UnblockUser(ctx context.Context, adminID, userID uint) error {
	return s.setUserBlocked(ctx, adminID, userID, false, models.ActionUnblockUser)
}

// ListLogs returns the latest audit rows, newest first.
func (s *ModerationService) ListLogs(ctx context.Context) ([]models.AdminLog, error) {
	var logs []models.AdminLog
	err := s.db.WithContext(ctx).
		Order("actiontime DESC, id DESC").
		Limit(AdminLogLimit).
		Find(&logs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return logs, nil
}

// ListUsers returns users for the admin overview.
func (s *ModerationService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// ListUserNotes returns every note a user posted, hidden ones included.
func (s *ModerationService) ListUserNotes(ctx context.Context, userID uint) ([]models.Note, error) {
	var notes []models.Note
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return notes, nil
}

// ListUserComments returns every comment a user posted, hidden ones included.
func (s *ModerationService) ListUserComments(ctx context.Context, userID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (s *ModerationService) recordAction(ctx context.Context, action models.AdminAction, adminID, targetID uint) {
	observability.ModerationActions.WithLabelValues(string(action)).Inc()
	middleware.Logger.InfoContext(ctx, "moderation action applied",
		slog.String("action", string(action)),
		slog.Uint64("admin_id", uint64(adminID)),
		slog.Uint64("target_id", uint64(targetID)),
	)
}

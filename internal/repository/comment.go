package repository

import (
	"context"
	"errors"

	"garland/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByNote(ctx context.Context, noteID uint, includeHidden bool) ([]models.Comment, error)
	// Update rewrites the content for the owning author only.
	Update(ctx context.Context, commentID, userID uint, content string) error
	// Delete removes the author's comment.
	Delete(ctx context.Context, commentID, userID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", comment.NoteID).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Note", comment.NoteID)
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByNote(ctx context.Context, noteID uint, includeHidden bool) ([]models.Comment, error) {
	var comments []models.Comment
	query := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("comments.*, users.username AS author").
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.note_id = ?", noteID).
		Order("comments.created_at ASC")
	if !includeHidden {
		query = query.Where("comments.is_hidden = ?", false)
	}
	if err := query.Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, commentID, userID uint, content string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND user_id = ?", commentID, userID).
		Update("content", content)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewForbiddenError("comment not found or not owned by user")
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", commentID, userID).
		Delete(&models.Comment{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewForbiddenError("comment not found or not owned by user")
	}
	return nil
}

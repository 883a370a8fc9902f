package repository

import (
	"context"
	"errors"

	"garland/internal/models"
	"garland/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JoinResult reports the outcome of a join attempt.
type JoinResult int

const (
	// Joined means a new membership row was inserted.
	Joined JoinResult = iota
	// AlreadyMember means the membership already existed.
	AlreadyMember
)

// TreeRepository defines persistence operations for trees and memberships.
type TreeRepository interface {
	Create(ctx context.Context, tree *models.Tree) error
	GetByID(ctx context.Context, id uint) (*models.Tree, error)
	GetByKey(ctx context.Context, key string) (*models.Tree, error)
	// Join enforces the access gate: private trees require the exact key.
	Join(ctx context.Context, treeID, userID uint, providedKey string) (JoinResult, error)
	IsMember(ctx context.Context, treeID, userID uint) (bool, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Tree, error)
	Delete(ctx context.Context, id uint) error
}

type treeRepository struct {
	db *gorm.DB
}

// NewTreeRepository returns a new TreeRepository implementation.
func NewTreeRepository(db *gorm.DB) TreeRepository {
	return &treeRepository{db: db}
}

func (r *treeRepository) Create(ctx context.Context, tree *models.Tree) error {
	if tree.Type == models.TreeTypePrivate && tree.Key == "" {
		tree.Key = models.NewTreeKey()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tree).Error; err != nil {
			return models.NewInternalError(err)
		}
		// The owner is always a member of their own tree.
		membership := models.TreeMembership{TreeID: tree.ID, UserID: tree.OwnerID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&membership).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (r *treeRepository) GetByID(ctx context.Context, id uint) (*models.Tree, error) {
	defer observability.TrackQuery("select", "trees")()

	var tree models.Tree
	if err := r.db.WithContext(ctx).First(&tree, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tree", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &tree, nil
}

func (r *treeRepository) GetByKey(ctx context.Context, key string) (*models.Tree, error) {
	var tree models.Tree
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&tree).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Tree", key)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &tree, nil
}

func (r *treeRepository) Join(ctx context.Context, treeID, userID uint, providedKey string) (JoinResult, error) {
	tree, err := r.GetByID(ctx, treeID)
	if err != nil {
		return 0, err
	}

	// Exact, case-sensitive comparison.
	if tree.Type == models.TreeTypePrivate && providedKey != tree.Key {
		return 0, models.NewForbiddenError("invalid tree key")
	}

	membership := models.TreeMembership{TreeID: treeID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&membership)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return AlreadyMember, nil
	}
	return Joined, nil
}

func (r *treeRepository) IsMember(ctx context.Context, treeID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TreeMembership{}).
		Where("tree_id = ? AND user_id = ?", treeID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *treeRepository) ListForUser(ctx context.Context, userID uint) ([]models.Tree, error) {
	var trees []models.Tree
	err := r.db.WithContext(ctx).
		Joins("JOIN tree_memberships ON tree_memberships.tree_id = trees.id").
		Where("tree_memberships.user_id = ?", userID).
		Order("trees.created_at DESC").
		Find(&trees).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return trees, nil
}

func (r *treeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tree models.Tree
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&tree, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Tree", id)
			}
			return models.NewInternalError(err)
		}

		var noteIDs []uint
		if err := tx.Model(&models.Note{}).Where("tree_id = ?", id).Pluck("id", &noteIDs).Error; err != nil {
			return models.NewInternalError(err)
		}
		if len(noteIDs) > 0 {
			if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.Like{}).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.Comment{}).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := tx.Where("tree_id = ?", id).Delete(&models.Note{}).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		if err := tx.Where("tree_id = ?", id).Delete(&models.TreeMembership{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Tree{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

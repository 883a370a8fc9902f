package seed

import (
	"testing"

	"garland/internal/database"
	"garland/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestRunSeedsExpectedData(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Run(db, Options{NumUsers: 5, NumTrees: 3, Deterministic: true}))

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 6, userCount, "5 users plus the admin")

	var adminCount int64
	require.NoError(t, db.Model(&models.User{}).Where("is_admin = ?", true).Count(&adminCount).Error)
	assert.EqualValues(t, 1, adminCount)

	var treeCount int64
	require.NoError(t, db.Model(&models.Tree{}).Count(&treeCount).Error)
	assert.EqualValues(t, 3, treeCount)

	// Every tree got an owner membership from the create path.
	var trees []models.Tree
	require.NoError(t, db.Find(&trees).Error)
	for _, tree := range trees {
		var isOwnerMember int64
		require.NoError(t, db.Model(&models.TreeMembership{}).
			Where("tree_id = ? AND user_id = ?", tree.ID, tree.OwnerID).
			Count(&isOwnerMember).Error)
		assert.EqualValuesf(t, 1, isOwnerMember, "owner of tree %d is not a member", tree.ID)

		if tree.Type == models.TreeTypePrivate {
			assert.Len(t, tree.Key, models.TreeKeyLength)
		} else {
			assert.Empty(t, tree.Key)
		}

		var noteCount int64
		require.NoError(t, db.Model(&models.Note{}).Where("tree_id = ?", tree.ID).Count(&noteCount).Error)
		assert.LessOrEqualf(t, noteCount, int64(models.MaxNotesPerTree),
			"tree %d was seeded past capacity", tree.ID)
	}
}

func TestRunIsReproducibleWhenDeterministic(t *testing.T) {
	counts := func() (users, trees, notes, comments int64) {
		db := setupSeedDB(t)
		require.NoError(t, Run(db, Options{NumUsers: 4, NumTrees: 2, Deterministic: true}))
		require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
		require.NoError(t, db.Model(&models.Tree{}).Count(&trees).Error)
		require.NoError(t, db.Model(&models.Note{}).Count(&notes).Error)
		require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
		return
	}

	u1, t1, n1, c1 := counts()
	u2, t2, n2, c2 := counts()
	assert.Equal(t, u1, u2)
	assert.Equal(t, t1, t2)
	assert.Equal(t, n1, n2)
	assert.Equal(t, c1, c2)
}

func TestCleanEmptiesAllTables(t *testing.T) {
	db := setupSeedDB(t)
	require.NoError(t, Run(db, Options{NumUsers: 3, NumTrees: 2, Deterministic: true}))

	require.NoError(t, Clean(db))

	for name, model := range map[string]interface{}{
		"users":            &models.User{},
		"trees":            &models.Tree{},
		"notes":            &models.Note{},
		"comments":         &models.Comment{},
		"likes":            &models.Like{},
		"tree_memberships": &models.TreeMembership{},
		"admin_logs":       &models.AdminLog{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zerof(t, count, "%s not emptied", name)
	}
}

func TestRunWithShouldCleanResets(t *testing.T) {
	db := setupSeedDB(t)
	require.NoError(t, Run(db, Options{NumUsers: 3, NumTrees: 1, Deterministic: true}))
	require.NoError(t, Run(db, Options{NumUsers: 3, NumTrees: 1, Deterministic: true, ShouldClean: true}))

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 4, userCount, "reseeding with clean must not accumulate users")
}

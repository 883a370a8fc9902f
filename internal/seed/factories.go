package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"garland/internal/models"
	"garland/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedPassword is the plaintext password every seeded account gets.
const SeedPassword = "garland123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rng  *rand.Rand
	hash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	var source rand.Source
	if opts.Deterministic {
		source = rand.NewSource(1)
		gofakeit.Seed(1)
	} else {
		source = rand.NewSource(time.Now().UnixNano())
		gofakeit.Seed(time.Now().UnixNano())
	}

	// One bcrypt hash shared by every seeded user keeps seeding fast.
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	return &Factory{db: db, rng: rand.New(source), hash: string(hashed)}
}

func (f *Factory) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return f.rng.Intn(n)
}

// CreateUser persists a user with a fake profile.
func (f *Factory) CreateUser() (*models.User, error) {
	username := strings.ToLower(gofakeit.Username())
	if len(username) > 30 {
		username = username[:30]
	}
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s-%d@%s", username, f.rng.Intn(100000), gofakeit.DomainName()),
		Password: f.hash,
		Provider: models.ProviderLocal,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAdmin persists an administrator account.
func (f *Factory) CreateAdmin() (*models.User, error) {
	user := &models.User{
		Username: "admin",
		Email:    fmt.Sprintf("admin-%d@garland.dev", f.rng.Intn(100000)),
		Password: f.hash,
		Provider: models.ProviderLocal,
		IsAdmin:  true,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateTree persists a tree owned by the given user, private roughly a
// third of the time, and enrolls the owner as a member.
func (f *Factory) CreateTree(owner *models.User) (*models.Tree, error) {
	treeType := models.TreeTypePublic
	if f.rng.Intn(3) == 0 {
		treeType = models.TreeTypePrivate
	}

	tree := &models.Tree{
		OwnerID: owner.ID,
		Name:    fmt.Sprintf("%s's %s tree", owner.Username, gofakeit.AdjectiveDescriptive()),
		Type:    treeType,
	}
	repo := repository.NewTreeRepository(f.db)
	if err := repo.Create(context.Background(), tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// CreateNote persists a note with a fake message at a random position.
func (f *Factory) CreateNote(tree *models.Tree, author *models.User) (*models.Note, error) {
	note := &models.Note{
		TreeID:  tree.ID,
		UserID:  author.ID,
		Message: gofakeit.Sentence(3 + f.rng.Intn(10)),
		PosX:    f.rng.Intn(100),
		PosY:    f.rng.Intn(100),
	}
	if err := f.db.Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

// CreateComment persists a comment on the given note.
func (f *Factory) CreateComment(note *models.Note, author *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		NoteID:  note.ID,
		UserID:  author.ID,
		Content: gofakeit.Sentence(2 + f.rng.Intn(8)),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records a like; duplicate picks are silently skipped.
func (f *Factory) CreateLike(note *models.Note, user *models.User) error {
	like := models.Like{NoteID: note.ID, UserID: user.ID}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
}

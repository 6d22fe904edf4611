// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"

	"qaforum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(opts.RandomSeed)
	return &Factory{db: db, opts: opts}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:    gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		DisplayName: gofakeit.Name(),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:        models.RoleUser,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateChannel constructs and persists a sample `models.Channel` owned by
// the given user.
func (f *Factory) CreateChannel(creator *models.User, overrides ...func(*models.Channel)) (*models.Channel, error) {
	channel := &models.Channel{
		Name:        gofakeit.ProgrammingLanguage() + "-" + gofakeit.Word(),
		Description: gofakeit.Sentence(10),
		CreatedBy:   creator.ID,
	}

	for _, override := range overrides {
		override(channel)
	}

	if err := f.db.Create(channel).Error; err != nil {
		return nil, err
	}
	return channel, nil
}

// CreatePost constructs and persists a sample `models.Post` in the given
// channel authored by the given user.
func (f *Factory) CreatePost(user *models.User, channel *models.Channel, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		ChannelID: channel.ID,
		UserID:    user.ID,
		Title:     fmt.Sprintf("How do I %s a %s in %s?", gofakeit.HackerVerb(), gofakeit.HackerNoun(), gofakeit.ProgrammingLanguage()),
		Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateReply constructs and persists a sample `models.Reply` on the provided
// post authored by the provided user. Pass a parent to nest the reply.
func (f *Factory) CreateReply(user *models.User, post *models.Post, parent *models.Reply, overrides ...func(*models.Reply)) (*models.Reply, error) {
	reply := &models.Reply{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: gofakeit.Sentence(12),
	}
	if parent != nil {
		reply.ParentReplyID = &parent.ID
	}

	for _, override := range overrides {
		override(reply)
	}

	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

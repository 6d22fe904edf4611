package seed

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"qaforum/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	RandomSeed  int64
}

var defaultChannels = []struct {
	name        string
	description string
}{
	{"general", "General programming discussion"},
	{"golang", "Everything about the Go programming language"},
	{"javascript", "JavaScript, TypeScript and the Node ecosystem"},
	{"databases", "SQL, NoSQL, schema design and query tuning"},
	{"devops", "CI/CD, containers, orchestration and infrastructure"},
	{"debugging", "Stack traces, weird errors and how to read them"},
	{"career", "Interviews, job hunting and growing as an engineer"},
}

// Seed populates the database with test data: an admin account, the default
// channel set, and a spread of posts with nested reply threads.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(opts.RandomSeed))

	admin, err := ensureAdmin(db, opts)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	users := []*models.User{admin}
	for i := 1; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d test users created", len(users))

	channels, err := ensureChannels(db, admin)
	if err != nil {
		return fmt.Errorf("failed to create channels: %w", err)
	}
	log.Printf("%d channels available", len(channels))

	var posts []*models.Post
	for i := 0; i < opts.NumPosts; i++ {
		author := users[r.Intn(len(users))]
		channel := channels[r.Intn(len(channels))]
		post, err := factory.CreatePost(author, channel)
		if err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("%d posts created", len(posts))

	replies, err := seedReplyThreads(factory, r, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create replies: %w", err)
	}
	log.Printf("%d replies created", replies)

	log.Println("Seeding complete. All test users have the password: password123")
	return nil
}

// ensureAdmin creates the admin account if it does not exist yet, and
// restores its role if an earlier run left it demoted.
func ensureAdmin(db *gorm.DB, opts Options) (*models.User, error) {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		if !existing.IsAdmin() {
			if uerr := db.Model(&existing).Update("role", models.RoleAdmin).Error; uerr != nil {
				return nil, uerr
			}
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	password := "password123"
	if !opts.SkipBcrypt {
		hashed, herr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if herr != nil {
			return nil, herr
		}
		password = string(hashed)
	}

	admin := &models.User{
		Username:    "admin",
		Password:    password,
		DisplayName: "Administrator",
		Role:        models.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// ensureChannels creates the default channel set, skipping names that
// already exist.
func ensureChannels(db *gorm.DB, creator *models.User) ([]*models.Channel, error) {
	var channels []*models.Channel
	for _, def := range defaultChannels {
		var existing models.Channel
		err := db.Where("name = ?", def.name).First(&existing).Error
		if err == nil {
			channels = append(channels, &existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		channel := &models.Channel{
			Name:        def.name,
			Description: def.description,
			CreatedBy:   creator.ID,
		}
		if err := db.Create(channel).Error; err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

// seedReplyThreads attaches reply trees to a subset of posts: root replies
// plus a sprinkling of nested children two and three levels deep, so the
// tree assembly path has real data to chew on in development.
func seedReplyThreads(factory *Factory, r *rand.Rand, users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		// Roughly a third of posts stay unanswered.
		if r.Intn(3) == 0 {
			continue
		}

		numRoots := 1 + r.Intn(4)
		for i := 0; i < numRoots; i++ {
			root, err := factory.CreateReply(users[r.Intn(len(users))], post, nil)
			if err != nil {
				return total, err
			}
			total++

			parent := root
			depth := r.Intn(3)
			for d := 0; d < depth; d++ {
				child, err := factory.CreateReply(users[r.Intn(len(users))], post, parent)
				if err != nil {
					return total, err
				}
				total++
				parent = child
			}
		}
	}
	return total, nil
}

// clearData removes all rows in dependency order. The cascading foreign keys
// would handle most of it, but explicit ordering keeps this working even on
// databases created before the constraints existed.
func clearData(db *gorm.DB) error {
	for _, table := range []string{"replies", "posts", "channels", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

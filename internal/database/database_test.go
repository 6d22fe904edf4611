package database

import (
	"testing"

	"qaforum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "channels", "posts", "replies"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}

	// Query-time fields must not become real columns; they would collide
	// with the aliases the repository queries emit.
	assert.False(t, db.Migrator().HasColumn(&models.Reply{}, "author"))
	assert.False(t, db.Migrator().HasColumn(&models.Reply{}, "level"))
	assert.False(t, db.Migrator().HasColumn(&models.Post{}, "reply_count"))
	assert.False(t, db.Migrator().HasColumn(&models.Channel{}, "post_count"))
}

func TestMigrate_Rerun(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	assert.NoError(t, Migrate(db), "migration should be idempotent")
}

package database

import (
	"path/filepath"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	// Connect creates the schema, so writes work immediately.
	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "h"}
	require.NoError(t, db.Create(user).Error)
	assert.NotZero(t, user.ID)

	post := &models.Post{Title: "t", Subtitle: "s", Author: "alice", Content: "c"}
	require.NoError(t, db.Create(post).Error)
	assert.NotZero(t, post.ID)
}

func TestCreateSchema_Idempotent(t *testing.T) {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, db.Create(&models.User{Username: "alice", Email: "a@example.com", Password: "h"}).Error)

	// Running the migration again must not disturb existing rows.
	require.NoError(t, CreateSchema(db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

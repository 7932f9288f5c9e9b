// Package seed provides helpers to create demo data for the blog database.
// These helpers are intended for development only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much demo content gets created.
type Options struct {
	Users        int
	PostsPerUser int
	// MaxDays spreads date_posted over the past N days.
	MaxDays int
	// Password is assigned to every demo user so they can be logged into.
	Password string
}

// DefaultOptions returns a small, readable demo data set.
func DefaultOptions() Options {
	return Options{
		Users:        3,
		PostsPerUser: 4,
		MaxDays:      60,
		Password:     "demopass123",
	}
}

// Run populates the database with demo users and posts.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Word(), r.Intn(1000)),
			Email:    gofakeit.Email(),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}

		for j := 0; j < opts.PostsPerUser; j++ {
			post := buildPost(user.Username, opts.MaxDays, r)
			if err := db.Create(post).Error; err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
		}
	}

	return nil
}

// buildPost constructs a post with a realistic date_posted spread.
func buildPost(author string, maxDays int, r *rand.Rand) *models.Post {
	if maxDays <= 0 {
		maxDays = 60
	}
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)

	title := gofakeit.Sentence(4)
	if len(title) > 50 {
		title = title[:50]
	}
	subtitle := gofakeit.Sentence(6)
	if len(subtitle) > 50 {
		subtitle = subtitle[:50]
	}
	content := gofakeit.Paragraph(1, 2, 8, " ")
	if len(content) > 250 {
		content = content[:250]
	}

	return &models.Post{
		Title:      title,
		Subtitle:   subtitle,
		Author:     author,
		Content:    content,
		DatePosted: time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour),
	}
}

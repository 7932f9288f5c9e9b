package models

import "time"

// Post represents a blog post. Author is the creating user's username,
// denormalized rather than a foreign key; it and DatePosted are immutable
// after creation.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:50" json:"title"`
	Subtitle string `gorm:"size:50" json:"subtitle"`
	Author   string `gorm:"size:20;index" json:"author"`
	Content  string `gorm:"size:250" json:"content"`
	// DatePosted is set once at creation and never touched on edit.
	DatePosted time.Time `gorm:"column:date_posted" json:"date_posted"`
}

// PostedOn formats the post date the way the post page displays it.
func (p *Post) PostedOn() string {
	return p.DatePosted.Format("January 02, 2006")
}

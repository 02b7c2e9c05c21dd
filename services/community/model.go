package community

import (
	"time"

	"gorm.io/datatypes"
)

// Comment is embedded in a post's JSON column; comments are few and
// always read with their post.
type Comment struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Post is a community board entry.
type Post struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	AuthorID   string         `gorm:"index" json:"authorId"`
	AuthorName string         `json:"authorName"`
	Content    string         `json:"content"`
	ImageURL   string         `json:"imageUrl,omitempty"`
	Likes      int            `json:"likes"`
	Comments   datatypes.JSON `json:"comments,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (Post) TableName() string {
	return "community_posts"
}

package models

import "time"

type Profile struct {
	ID         int64  `json:"-"`
	Username   string `json:"username"`
	PostsCount int64  `json:"postsCount"`
	Following  bool   `json:"following"`
}

type Group struct {
	ID          int64  `json:"-"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	AuthorID  int64     `json:"-"`
	Author    string    `json:"author"`
	GroupID   *int64    `json:"-"`
	GroupSlug *string   `json:"group"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"-"`
	AuthorID  int64     `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Follow is a directed edge: UserID follows AuthorID.
type Follow struct {
	ID       int64
	UserID   int64
	AuthorID int64
}

// Package model holds the CodeReview+ domain types shared by the core packages.
// Wire quirks of the REST backend are resolved in pkg/api before values reach here.
package model

import "time"

// UserSummary is the compact user reference embedded in comments, posts and
// suggestion lists.
type UserSummary struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
}

// Name returns the display name, falling back to the username.
func (u UserSummary) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	return "User"
}

// User is a full profile.
type User struct {
	UserSummary
	Email          string `json:"email,omitempty"`
	Bio            string `json:"bio"`
	Admin          bool   `json:"admin"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
	PostsCount     int    `json:"posts_count"`
	IsFollowing    bool   `json:"is_following"`
}

// Comment is a node of a post's comment forest.
type Comment struct {
	ID        int64       `json:"id"`
	PostID    int64       `json:"post_id"`
	UserID    int64       `json:"user_id"`
	Author    UserSummary `json:"author"`
	Content   string      `json:"content"`
	ParentID  *int64      `json:"parent_id,omitempty"`
	Replies   []Comment   `json:"replies,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsReply reports whether the comment has a parent.
func (c Comment) IsReply() bool {
	return c.ParentID != nil
}

// NewComment is the payload for creating a comment or a reply.
type NewComment struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// Post is a shared code snippet with its comment forest.
type Post struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	Author        UserSummary `json:"author"`
	Content       string      `json:"content"`
	Description   string      `json:"description,omitempty"`
	ImageURL      string      `json:"image_url,omitempty"`
	LikesCount    int         `json:"likes_count"`
	CommentsCount int         `json:"comments_count"`
	LikedByUser   bool        `json:"liked_by_user"`
	Comments      []Comment   `json:"comments"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewPost is the payload for publishing a post.
type NewPost struct {
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
}

// Notification is an entry of the signed-in user's notification list.
type Notification struct {
	ID        int64        `json:"id"`
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	Read      bool         `json:"read"`
	CreatedAt time.Time    `json:"created_at"`
	Actor     *UserSummary `json:"actor,omitempty"`
}

// CountComments returns the number of comments in a forest, replies included.
func CountComments(comments []Comment) int {
	n := 0
	for _, c := range comments {
		n += 1 + CountComments(c.Replies)
	}
	return n
}

// FindComment searches a forest depth-first.
func FindComment(comments []Comment, id int64) (*Comment, bool) {
	for i := range comments {
		if comments[i].ID == id {
			return &comments[i], true
		}
		if found, ok := FindComment(comments[i].Replies, id); ok {
			return found, true
		}
	}
	return nil, false
}

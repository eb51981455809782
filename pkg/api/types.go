package api

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/YagorVitor/CodeReview/pkg/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse is the backend's error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Author is the compact user object embedded in posts, comments and
// notifications.
type Author struct {
	ID             int64   `json:"id"`
	Name           *string `json:"name"`
	Username       string  `json:"username"`
	ProfilePicture *string `json:"profile_picture"`
	IsFollowing    bool    `json:"is_following"`
}

type User struct {
	ID             int64   `json:"id"`
	Name           *string `json:"name"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Admin          bool    `json:"admin"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
	FollowersCount int     `json:"followers_count"`
	FollowingCount int     `json:"following_count"`
	PostsCount     int     `json:"posts_count"`
	IsFollowing    bool    `json:"is_following"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	ParentID  *int64    `json:"parent_id"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"created_at"`
	Author    *Author   `json:"author"`
	Replies   []Comment `json:"replies"`
}

type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

type Post struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Content       string    `json:"content"`
	Description   *string   `json:"description"`
	ImageURL      *string   `json:"image_url"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount *int      `json:"comments_count"`
	LikedByUser   bool      `json:"liked_by_user"`
	Author        *Author   `json:"author"`
	Comments      []Comment `json:"comments"`
}

type Notification struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"created_at"`
	Actor     *Author `json:"actor"`
}

type FollowersResponse struct {
	Count     int    `json:"count"`
	Followers []User `json:"followers"`
}

type ResolveUsernamesRequest struct {
	Usernames []string `json:"usernames"`
}

// the backend writes isoformat() timestamps, usually without a zone
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"}

// ParseTime parses a backend timestamp. Zoneless values are UTC; anything
// unparseable is the zero time.
func ParseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func summary(id int64, username string, name, picture *string) model.UserSummary {
	display := deref(name)
	if display == "" {
		display = username
	}
	return model.UserSummary{ID: id, Username: username, DisplayName: display, AvatarRef: deref(picture)}
}

// ToModel converts the author, falling back to an anonymous user.
func (a *Author) ToModel(fallbackID int64) model.UserSummary {
	if a == nil {
		return model.UserSummary{ID: fallbackID, DisplayName: "User"}
	}
	return summary(a.ID, a.Username, a.Name, a.ProfilePicture)
}

func (u User) Summary() model.UserSummary {
	return summary(u.ID, u.Username, u.Name, u.ProfilePicture)
}

func (u User) ToModel() model.User {
	return model.User{
		UserSummary:    u.Summary(),
		Email:          u.Email,
		Bio:            deref(u.Bio),
		Admin:          u.Admin,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		PostsCount:     u.PostsCount,
		IsFollowing:    u.IsFollowing,
	}
}

func (c Comment) ToModel() model.Comment {
	out := model.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Author:    c.Author.ToModel(c.UserID),
		Content:   c.Content,
		ParentID:  c.ParentID,
		CreatedAt: ParseTime(c.CreatedAt),
	}
	if len(c.Replies) > 0 {
		out.Replies = commentsToModel(c.Replies)
	}
	return out
}

func commentsToModel(in []Comment) []model.Comment {
	out := make([]model.Comment, 0, len(in))
	for _, c := range in {
		out = append(out, c.ToModel())
	}
	return out
}

func (p Post) ToModel() model.Post {
	comments := commentsToModel(p.Comments)
	count := model.CountComments(comments)
	if p.CommentsCount != nil {
		count = *p.CommentsCount
	}
	return model.Post{
		ID:            p.ID,
		UserID:        p.UserID,
		Author:        p.Author.ToModel(p.UserID),
		Content:       p.Content,
		Description:   deref(p.Description),
		ImageURL:      deref(p.ImageURL),
		LikesCount:    p.LikesCount,
		CommentsCount: count,
		LikedByUser:   p.LikedByUser,
		Comments:      comments,
		CreatedAt:     ParseTime(p.CreatedAt),
		UpdatedAt:     ParseTime(p.UpdatedAt),
	}
}

func (n Notification) ToModel() model.Notification {
	out := model.Notification{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: ParseTime(n.CreatedAt),
	}
	if n.Actor != nil {
		actor := n.Actor.ToModel(0)
		out.Actor = &actor
	}
	return out
}

// Package formatter turns domain values into table rows and records for
// the output package.
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/YagorVitor/CodeReview/pkg/model"
)

var (
	Bold    = color.New(color.Bold)
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Warning = color.New(color.FgYellow)
)

// PreviewWidth is the column budget for content previews in tables.
const PreviewWidth = 48

var (
	PostColumns         = []string{"ID", "AUTHOR", "PREVIEW", "COMMENTS", "LIKES", "POSTED"}
	NotificationColumns = []string{"ID", "", "MESSAGE", "WHEN"}
	UserColumns         = []string{"ID", "USERNAME", "NAME"}
)

// RelTime formats t relative to now ("3 hours ago").
func RelTime(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Preview returns the first non-empty line of s cut to width columns.
func Preview(s string, width int) string {
	line := ""
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			line = strings.TrimSpace(l)
			break
		}
	}
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return line
	}
	return runewidth.Truncate(line, width, "…")
}

func PostRows(posts []model.Post, now time.Time) [][]string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			"@" + p.Author.Username,
			Preview(p.Content, PreviewWidth),
			strconv.Itoa(p.CommentsCount),
			strconv.Itoa(p.LikesCount),
			RelTime(p.CreatedAt, now),
		})
	}
	return rows
}

func NotificationRows(list []model.Notification, now time.Time) [][]string {
	rows := make([][]string, 0, len(list))
	for _, n := range list {
		marker := "*"
		if n.Read {
			marker = ""
		}
		rows = append(rows, []string{
			strconv.FormatInt(n.ID, 10),
			marker,
			n.Message,
			RelTime(n.CreatedAt, now),
		})
	}
	return rows
}

func UserRows(users []model.UserSummary) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{strconv.FormatInt(u.ID, 10), "@" + u.Username, u.Name()})
	}
	return rows
}

// ProfileRecord is the field set shown by the profile command.
func ProfileRecord(u model.User) map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"username":  "@" + u.Username,
		"name":      u.Name(),
		"bio":       u.Bio,
		"followers": humanize.Comma(int64(u.FollowersCount)),
		"following": humanize.Comma(int64(u.FollowingCount)),
		"posts":     humanize.Comma(int64(u.PostsCount)),
	}
}

// PostHeader is the title line above a rendered thread.
func PostHeader(p model.Post, now time.Time) string {
	return fmt.Sprintf("#%d by %s (@%s) · %s · %s, %s",
		p.ID, p.Author.Name(), p.Author.Username, RelTime(p.CreatedAt, now),
		pluralize(p.CommentsCount, "comment"), pluralize(p.LikesCount, "like"))
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}

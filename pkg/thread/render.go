package thread

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/YagorVitor/CodeReview/pkg/mention"
)

var (
	authorStyle  = lipgloss.NewStyle().Bold(true)
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	mentionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	refStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	hiddenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	markerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("67"))
)

const (
	indentUnit  = "  "
	replyMarker = "└ "
	ellipsis    = "…"
)

// RenderOptions tunes Write.
type RenderOptions struct {
	// Width truncates content lines to this many cells. Zero disables it.
	Width int
	// Now anchors relative times. Zero means time.Now.
	Now time.Time
	// ProfileRef maps a username to the reference shown after a mention.
	// Nil shows mentions without a reference.
	ProfileRef func(username string) string
}

// ProfilePath is the profile route of a user.
func ProfilePath(username string) string {
	return "/profile/" + username
}

// Write renders lines as an indented tree.
func Write(w io.Writer, lines []Line, opts RenderOptions) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var b strings.Builder
	for _, line := range lines {
		pad := strings.Repeat(indentUnit, line.Indent)
		head := pad
		if line.Depth > 0 {
			head = strings.Repeat(indentUnit, line.Indent-1) + markerStyle.Render(replyMarker)
		}

		c := line.Comment
		b.WriteString(head)
		b.WriteString(authorStyle.Render(c.Author.Name()))
		if c.Author.Username != "" {
			b.WriteString(" " + metaStyle.Render("@"+c.Author.Username))
		}
		meta := fmt.Sprintf(" · #%d", c.ID)
		if !c.CreatedAt.IsZero() {
			meta = " · " + humanize.RelTime(c.CreatedAt, now, "ago", "from now") + meta
		}
		b.WriteString(metaStyle.Render(meta))
		b.WriteByte('\n')

		body := pad + indentUnit
		for _, text := range strings.Split(c.Content, "\n") {
			b.WriteString(body)
			if opts.Width > 0 {
				b.WriteString(renderTruncated(mention.Segments(text), opts.ProfileRef, max(opts.Width-runewidth.StringWidth(body), 1)))
			} else {
				b.WriteString(renderSegments(mention.Segments(text), opts.ProfileRef))
			}
			b.WriteByte('\n')
		}

		if line.HiddenReplies > 0 {
			noun := "replies"
			if line.HiddenReplies == 1 {
				noun = "reply"
			}
			b.WriteString(body)
			b.WriteString(hiddenStyle.Render(fmt.Sprintf("[+] %d %s hidden", line.HiddenReplies, noun)))
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderSegments(segments []mention.Segment, ref func(string) string) string {
	var b strings.Builder
	for _, s := range segments {
		if !s.IsMention() {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(mentionStyle.Render(s.Text))
		if ref != nil {
			b.WriteString(refStyle.Render(" <" + ref(s.Username) + ">"))
		}
	}
	return b.String()
}

// renderTruncated renders segments into at most width cells, profile
// references included. A cut line ends with an ellipsis.
func renderTruncated(segments []mention.Segment, ref func(string) string, width int) string {
	type piece struct {
		text  string
		style lipgloss.Style
		plain bool
		ref   bool
	}
	var pieces []piece
	total := 0
	for _, s := range segments {
		if !s.IsMention() {
			pieces = append(pieces, piece{text: s.Text, plain: true})
		} else {
			pieces = append(pieces, piece{text: s.Text, style: mentionStyle})
			if ref != nil {
				pieces = append(pieces, piece{text: " <" + ref(s.Username) + ">", style: refStyle, ref: true})
			}
		}
	}
	for _, p := range pieces {
		total += runewidth.StringWidth(p.text)
	}
	if total <= width {
		return renderSegments(segments, ref)
	}

	var b strings.Builder
	left := width - runewidth.StringWidth(ellipsis)
	for _, p := range pieces {
		text := p.text
		cut := runewidth.StringWidth(text) > left
		if cut && p.ref {
			break
		}
		if cut {
			text = runewidth.Truncate(text, left, "")
		}
		if p.plain {
			b.WriteString(text)
		} else {
			b.WriteString(p.style.Render(text))
		}
		left -= runewidth.StringWidth(text)
		if cut {
			break
		}
	}
	b.WriteString(ellipsis)
	return b.String()
}

// RenderText styles the mentions of a single text, as Write does for
// comment bodies.
func RenderText(text string, ref func(username string) string) string {
	return renderSegments(mention.Segments(text), ref)
}

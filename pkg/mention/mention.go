// Package mention detects, completes, validates and segments @username
// references in free text. Cursor positions are rune offsets.
package mention

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// trigger matches a partial mention ending right before the cursor.
	trigger = regexp.MustCompile(`@(\w*)$`)
	// token matches a complete mention anywhere in the text.
	token = regexp.MustCompile(`@\w+`)
)

// clamp keeps cursor inside [0, n].
func clamp(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > n {
		return n
	}
	return cursor
}

// LiveQuery returns the word characters typed after an @ that sits right
// before cursor. The query may be empty (a bare @). Only the text up to the
// cursor is inspected, so a mention typed in the middle of existing text is
// detected the same way as one typed at the end.
func LiveQuery(text string, cursor int) (string, bool) {
	runes := []rune(text)
	before := string(runes[:clamp(cursor, len(runes))])
	m := trigger.FindStringSubmatch(before)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Insertion is the outcome of completing a mention.
type Insertion struct {
	Text   string
	Cursor int
}

// Insert replaces the partial mention before cursor with @username followed by
// a single space and keeps the text after cursor. If that text already starts
// with whitespace no extra space is added and the cursor lands after it. When
// there is no partial mention before cursor, the text is returned unchanged
// and ok is false.
func Insert(text string, cursor int, username string) (Insertion, bool) {
	runes := []rune(text)
	cursor = clamp(cursor, len(runes))
	before := string(runes[:cursor])
	after := string(runes[cursor:])

	loc := trigger.FindStringIndex(before)
	if loc == nil {
		return Insertion{Text: text, Cursor: cursor}, false
	}

	mention := "@" + username
	next := []rune(after)
	if len(next) > 0 && unicode.IsSpace(next[0]) {
		head := before[:loc[0]] + mention
		return Insertion{
			Text:   head + after,
			Cursor: len([]rune(head)) + 1,
		}, true
	}

	head := before[:loc[0]] + mention + " "
	return Insertion{
		Text:   head + after,
		Cursor: len([]rune(head)),
	}, true
}

// Candidates returns every mentioned username in text, lower-cased and
// deduplicated in first-seen order.
func Candidates(text string) []string {
	matches := token.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1:])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Segment is a run of plain text or a single mention.
type Segment struct {
	Text     string
	Username string // set only for mentions, without the @
}

// IsMention reports whether the segment references a user.
func (s Segment) IsMention() bool {
	return s.Username != ""
}

// Segments splits text into alternating plain and mention runs. Joining the
// segments yields text unchanged.
func Segments(text string) []Segment {
	locs := token.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, 2*len(locs)+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{
			Text:     text[loc[0]:loc[1]],
			Username: text[loc[0]+1 : loc[1]],
		})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// Join concatenates segment text.
func Join(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

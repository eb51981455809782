package service

import (
	"context"
	"strings"

	"github.com/YagorVitor/CodeReview/pkg/formatter"
	"github.com/YagorVitor/CodeReview/pkg/mention"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/output"
	"github.com/YagorVitor/CodeReview/pkg/thread"
)

// MentionService exposes the mention engine on the command line.
type MentionService struct {
	backend Backend
}

func NewMentionService(backend Backend) *MentionService {
	return &MentionService{backend: backend}
}

// Suggest runs one suggestion lookup for query, with or without its "@".
func (ms *MentionService) Suggest(ctx context.Context, query string) ([]model.UserSummary, error) {
	query = strings.TrimPrefix(strings.TrimSpace(query), "@")

	lookup := newLookup(ms.backend)
	defer lookup.Close()

	results := make(chan mention.Result, 1)
	lookup.Request(query, func(r mention.Result) { results <- r })

	select {
	case r := <-results:
		return r.Suggestions, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PrintSuggestions prints the users matching query.
func (ms *MentionService) PrintSuggestions(ctx context.Context, query string) error {
	users, err := ms.Suggest(ctx, query)
	if err != nil {
		return err
	}
	if len(users) == 0 && !output.IsJSON() {
		output.PrintInfo("No users match %q", query)
		return nil
	}
	return output.PrintList(users, formatter.UserColumns, formatter.UserRows(users))
}

// Check validates the mentions of text and prints the outcome. Unknown
// mentions are returned as an *mention.InvalidMentionsError.
func (ms *MentionService) Check(ctx context.Context, text string) (*mention.Report, error) {
	report, err := newValidator(ms.backend).Validate(ctx, text)
	if err != nil {
		return nil, err
	}

	if output.IsJSON() {
		if err := output.Print(report); err != nil {
			return nil, err
		}
	} else {
		switch {
		case len(report.Candidates) == 0:
			output.PrintInfo("No mentions")
		case report.Deferred:
			output.PrintWarning("Could not verify %d mention%s; the server will check them", len(report.Candidates), pluralize(len(report.Candidates)))
		case report.Valid():
			output.PrintSuccess("All %d mention%s resolve", len(report.Candidates), pluralize(len(report.Candidates)))
		}
	}

	if !report.Valid() {
		return report, &mention.InvalidMentionsError{Usernames: report.Invalid}
	}
	return report, nil
}

// Render prints text with its mentions highlighted and linked to profiles.
func (ms *MentionService) Render(text string) error {
	if output.IsJSON() {
		return output.Print(mention.Segments(text))
	}
	_, err := output.Out.Write([]byte(thread.RenderText(text, thread.ProfilePath) + "\n"))
	return err
}

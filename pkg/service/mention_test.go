package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YagorVitor/CodeReview/pkg/api"
	"github.com/YagorVitor/CodeReview/pkg/config"
	"github.com/YagorVitor/CodeReview/pkg/mention"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

func TestSuggest(t *testing.T) {
	fake, _ := setup(t, "text")
	ms := NewMentionService(api.NewBackend())

	users, err := ms.Suggest(context.Background(), "@al")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "albert"}, usernames(users))

	users, err = ms.Suggest(context.Background(), "@")
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 1, fake.count("GET /api/users/search"))
}

func TestSuggestRespectsLimit(t *testing.T) {
	setup(t, "text")
	config.Set("mention.suggestion_limit", 1)

	users, err := NewMentionService(api.NewBackend()).Suggest(context.Background(), "al")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestPrintSuggestionsTable(t *testing.T) {
	_, out := setup(t, "table")

	require.NoError(t, NewMentionService(api.NewBackend()).PrintSuggestions(context.Background(), "bo"))
	assert.Contains(t, out.String(), "USERNAME")
	assert.Contains(t, out.String(), "@bob")
}

func TestCheck(t *testing.T) {
	_, out := setup(t, "text")
	ms := NewMentionService(api.NewBackend())

	report, err := ms.Check(context.Background(), "thanks @Alice and @bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, report.Candidates)
	assert.Contains(t, out.String(), "All 2 mentions resolve")

	_, err = ms.Check(context.Background(), "cc @ghost")
	var invalid *mention.InvalidMentionsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"ghost"}, invalid.Usernames)
}

func TestCheckWithoutMentionsSkipsServer(t *testing.T) {
	fake, out := setup(t, "text")

	_, err := NewMentionService(api.NewBackend()).Check(context.Background(), "x := a + b // no mentions")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No mentions")
	assert.Equal(t, 0, fake.count("POST /api/users/by_usernames"))
}

func TestRender(t *testing.T) {
	_, out := setup(t, "text")
	require.NoError(t, NewMentionService(api.NewBackend()).Render("ping @bob"))
	assert.Equal(t, "ping @bob </profile/bob>\n", out.String())
}

func usernames(users []model.UserSummary) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}

package mention

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	known []string
	err   error
	calls [][]string
}

func (r *countingResolver) ResolveUsernames(_ context.Context, usernames []string) ([]string, error) {
	r.calls = append(r.calls, usernames)
	if r.err != nil {
		return nil, r.err
	}
	var out []string
	for _, u := range usernames {
		for _, k := range r.known {
			if k == u {
				out = append(out, k)
			}
		}
	}
	return out, nil
}

func TestValidateWithoutMentionsMakesNoCall(t *testing.T) {
	r := &countingResolver{}
	v := NewValidator(r, PolicyBlock)

	report, err := v.Validate(context.Background(), "no mentions here, me@ ")
	require.NoError(t, err)
	assert.True(t, report.Valid())
	assert.Empty(t, r.calls)
	assert.NoError(t, v.Check(context.Background(), ""))
	assert.Empty(t, r.calls)
}

func TestValidateSendsDeduplicatedCandidates(t *testing.T) {
	r := &countingResolver{known: []string{"alice", "bob"}}
	v := NewValidator(r, PolicyBlock)

	report, err := v.Validate(context.Background(), "@Alice @bob @alice")
	require.NoError(t, err)
	assert.True(t, report.Valid())
	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"alice", "bob"}, r.calls[0])
}

func TestValidateReportsUnknownMentions(t *testing.T) {
	r := &countingResolver{known: []string{"alice"}}
	v := NewValidator(r, PolicyBlock)

	err := v.Check(context.Background(), "cc @alice @ghost @nobody")
	var invalid *InvalidMentionsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"ghost", "nobody"}, invalid.Usernames)
	assert.Equal(t, "users not found: ghost, nobody", err.Error())
}

func TestValidateMatchesResolvedNamesCaseInsensitively(t *testing.T) {
	v := NewValidator(resolverFunc(func(_ context.Context, _ []string) ([]string, error) {
		return []string{"Alice"}, nil
	}), PolicyBlock)

	assert.NoError(t, v.Check(context.Background(), "@alice"))
}

func TestValidateResolverFailure(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("block", func(t *testing.T) {
		v := NewValidator(&countingResolver{err: boom}, PolicyBlock)
		err := v.Check(context.Background(), "@alice")

		var unverified *UnverifiedError
		require.ErrorAs(t, err, &unverified)
		assert.Equal(t, []string{"alice"}, unverified.Usernames)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("defer", func(t *testing.T) {
		v := NewValidator(&countingResolver{err: boom}, PolicyDefer)
		report, err := v.Validate(context.Background(), "@alice")
		require.NoError(t, err)
		assert.True(t, report.Deferred)
		assert.True(t, report.Valid())
		assert.NoError(t, v.Check(context.Background(), "@alice"))
	})
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, PolicyDefer, ParsePolicy(" Defer "))
	assert.Equal(t, PolicyBlock, ParsePolicy("block"))
	assert.Equal(t, PolicyBlock, ParsePolicy(""))
	assert.Equal(t, PolicyBlock, ParsePolicy("whatever"))
}

type resolverFunc func(ctx context.Context, usernames []string) ([]string, error)

func (f resolverFunc) ResolveUsernames(ctx context.Context, usernames []string) ([]string, error) {
	return f(ctx, usernames)
}

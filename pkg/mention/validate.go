package mention

import (
	"context"
	"fmt"
	"strings"

	"github.com/YagorVitor/CodeReview/pkg/logger"
)

// Resolver returns the subset of usernames that belong to existing users.
type Resolver interface {
	ResolveUsernames(ctx context.Context, usernames []string) ([]string, error)
}

// ResolvePolicy decides what happens when mentions cannot be verified because
// the resolver failed.
type ResolvePolicy string

const (
	// PolicyBlock refuses submission until mentions can be verified.
	PolicyBlock ResolvePolicy = "block"
	// PolicyDefer lets submission proceed and leaves checking to the server.
	PolicyDefer ResolvePolicy = "defer"
)

// ParsePolicy maps a config value to a policy, defaulting to PolicyBlock.
func ParsePolicy(s string) ResolvePolicy {
	if ResolvePolicy(strings.ToLower(strings.TrimSpace(s))) == PolicyDefer {
		return PolicyDefer
	}
	return PolicyBlock
}

// InvalidMentionsError lists mentions that do not resolve to a user.
type InvalidMentionsError struct {
	Usernames []string
}

func (e *InvalidMentionsError) Error() string {
	return "users not found: " + strings.Join(e.Usernames, ", ")
}

// UnverifiedError means the mentions could not be checked at all.
type UnverifiedError struct {
	Usernames []string
	Err       error
}

func (e *UnverifiedError) Error() string {
	return fmt.Sprintf("could not verify mentions (%s): %v", strings.Join(e.Usernames, ", "), e.Err)
}

func (e *UnverifiedError) Unwrap() error {
	return e.Err
}

// Report is the outcome of validating a text.
type Report struct {
	Candidates []string
	Invalid    []string
	Deferred   bool
}

// Valid reports whether every candidate resolved (or checking was deferred).
func (r *Report) Valid() bool {
	return len(r.Invalid) == 0
}

// Validator checks mentions in text that is about to be submitted.
type Validator struct {
	resolver Resolver
	policy   ResolvePolicy
}

// NewValidator creates a validator.
func NewValidator(resolver Resolver, policy ResolvePolicy) *Validator {
	return &Validator{resolver: resolver, policy: policy}
}

// Validate resolves every mention of text. Text without mentions is valid
// without contacting the resolver.
func (v *Validator) Validate(ctx context.Context, text string) (*Report, error) {
	candidates := Candidates(text)
	report := &Report{Candidates: candidates}
	if len(candidates) == 0 {
		return report, nil
	}

	resolved, err := v.resolver.ResolveUsernames(ctx, candidates)
	if err != nil {
		if v.policy == PolicyDefer {
			logger.Warn("Mention check deferred to server", "mentions", candidates, "error", err)
			report.Deferred = true
			return report, nil
		}
		return nil, &UnverifiedError{Usernames: candidates, Err: err}
	}

	known := make(map[string]struct{}, len(resolved))
	for _, name := range resolved {
		known[strings.ToLower(name)] = struct{}{}
	}
	for _, candidate := range candidates {
		if _, ok := known[candidate]; !ok {
			report.Invalid = append(report.Invalid, candidate)
		}
	}
	return report, nil
}

// Check returns nil when text may be submitted, an *InvalidMentionsError when
// some mentions are unknown, or an *UnverifiedError when they could not be
// checked under PolicyBlock.
func (v *Validator) Check(ctx context.Context, text string) error {
	report, err := v.Validate(ctx, text)
	if err != nil {
		return err
	}
	if !report.Valid() {
		return &InvalidMentionsError{Usernames: report.Invalid}
	}
	return nil
}

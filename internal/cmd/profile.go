package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/YagorVitor/CodeReview/internal/tui"
	"github.com/YagorVitor/CodeReview/pkg/output"
	"github.com/YagorVitor/CodeReview/pkg/prompter"
	"github.com/YagorVitor/CodeReview/pkg/service"
	"github.com/YagorVitor/CodeReview/pkg/session"
)

var bioText string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View profiles, follow people and edit your bio",
}

var viewProfileCmd = &cobra.Command{
	Use:   "view <username>",
	Short: "View a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(backend(), sess).View(cmd.Context(), args[0])
	},
}

var bioCmd = &cobra.Command{
	Use:   "bio",
	Short: "Update your bio",
	Long: `Replace your bio. Mentions must name real users.
Without --bio an interactive composer opens with your current bio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewProfileService(backend(), sess)
		if cmd.Flags().Changed("bio") {
			_, err := svc.UpdateBio(cmd.Context(), bioText)
			return err
		}
		if !interactive() {
			text, err := prompter.PromptMultilineString("Bio", 20)
			if err != nil {
				return err
			}
			_, err = svc.UpdateBio(cmd.Context(), text)
			return err
		}
		return composeBio(cmd.Context(), svc)
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <username>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(backend(), sess).Follow(cmd.Context(), args[0])
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <username>",
	Short: "Stop following a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(backend(), sess).Unfollow(cmd.Context(), args[0])
	},
}

func init() {
	bioCmd.Flags().StringVar(&bioText, "bio", "", "New bio text")

	profileCmd.AddCommand(viewProfileCmd)
	profileCmd.AddCommand(bioCmd)
	profileCmd.AddCommand(followCmd)
	profileCmd.AddCommand(unfollowCmd)
}

func composeBio(ctx context.Context, svc *service.ProfileService) error {
	if sess == nil {
		return session.ErrNotLoggedIn
	}
	current := ""
	if me, err := svc.Get(ctx, sess.Username); err == nil {
		current = me.Bio
	}

	err := tui.Compose(ctx, tui.Options{
		Title:       "Edit bio",
		Placeholder: "Tell people about yourself. Type @ to mention someone.",
		Initial:     current,
		Width:       min(terminalWidth(), 100) - 4,
		Lookup:      svc.Lookup(),
		Submit: func(ctx context.Context, text string) error {
			_, err := svc.SaveBio(ctx, text)
			return err
		},
	})
	if errors.Is(err, tui.ErrCancelled) {
		output.PrintInfo("Bio unchanged")
		return nil
	}
	if err != nil {
		return err
	}
	output.PrintSuccess("Bio updated")
	return nil
}

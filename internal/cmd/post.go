package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YagorVitor/CodeReview/internal/tui"
	"github.com/YagorVitor/CodeReview/pkg/formatter"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/output"
	"github.com/YagorVitor/CodeReview/pkg/prompter"
	"github.com/YagorVitor/CodeReview/pkg/service"
	"github.com/YagorVitor/CodeReview/pkg/thread"
)

var (
	postContent     string
	postDescription string
	postDeleteYes   bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Publish, like and delete posts",
}

var createPostCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a code snippet for review",
	Long: `Publish a code snippet with an optional description.
Mentions in either must name real users.
Without --content an interactive composer opens with @mention suggestions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewPostService(backend(), sess)
		if postContent != "" {
			_, err := svc.Create(cmd.Context(), postContent, postDescription)
			return err
		}
		if !interactive() {
			content, err := prompter.PromptMultilineString("Code", 200)
			if err != nil {
				return err
			}
			_, err = svc.Create(cmd.Context(), content, postDescription)
			return err
		}
		return composePost(cmd.Context(), svc)
	},
}

var likePostCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, err := parseID(args[0], "post-id")
		if err != nil {
			return err
		}
		return service.NewPostService(backend(), sess).Like(cmd.Context(), postID)
	},
}

var unlikePostCmd = &cobra.Command{
	Use:   "unlike <post-id>",
	Short: "Remove your like from a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, err := parseID(args[0], "post-id")
		if err != nil {
			return err
		}
		return service.NewPostService(backend(), sess).Unlike(cmd.Context(), postID)
	},
}

var deletePostCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, err := parseID(args[0], "post-id")
		if err != nil {
			return err
		}
		err = service.NewPostService(backend(), sess).Delete(cmd.Context(), postID, confirmDeletePost)
		if errors.Is(err, thread.ErrNotConfirmed) {
			output.PrintInfo("Post kept")
			return nil
		}
		return err
	},
}

func init() {
	createPostCmd.Flags().StringVarP(&postContent, "content", "c", "", "Code to publish")
	createPostCmd.Flags().StringVarP(&postDescription, "description", "d", "", "What reviewers should look at")

	deletePostCmd.Flags().BoolVarP(&postDeleteYes, "yes", "y", false, "Skip the confirmation prompt")

	postCmd.AddCommand(createPostCmd)
	postCmd.AddCommand(likePostCmd)
	postCmd.AddCommand(unlikePostCmd)
	postCmd.AddCommand(deletePostCmd)
}

func composePost(ctx context.Context, svc *service.PostService) error {
	var created *model.Post
	var refreshErr *thread.RefreshError
	err := tui.Compose(ctx, tui.Options{
		Title:       "New post",
		Placeholder: "Paste the code to review. Type @ to mention someone.",
		Width:       min(terminalWidth(), 100) - 4,
		Lookup:      svc.Lookup(),
		Submit: func(ctx context.Context, text string) error {
			p, rErr, err := svc.Send(ctx, text, postDescription)
			if err != nil {
				return err
			}
			created, refreshErr = p, rErr
			return nil
		},
	})
	if errors.Is(err, tui.ErrCancelled) {
		output.PrintInfo("Nothing published")
		return nil
	}
	if err != nil {
		return err
	}
	svc.Report(created, refreshErr)
	return nil
}

func confirmDeletePost(p model.Post) bool {
	if postDeleteYes {
		return true
	}
	fmt.Fprintf(prompter.Out, "#%d by %s: %s\n", p.ID, p.Author.Name(), formatter.Preview(p.Content, formatter.PreviewWidth))
	ok, err := prompter.PromptConfirm("Delete this post?")
	if err != nil {
		return false
	}
	return ok
}

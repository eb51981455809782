package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/YagorVitor/CodeReview/internal/tui"
	"github.com/YagorVitor/CodeReview/pkg/config"
	clierrors "github.com/YagorVitor/CodeReview/pkg/errors"
	"github.com/YagorVitor/CodeReview/pkg/formatter"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/output"
	"github.com/YagorVitor/CodeReview/pkg/prompter"
	"github.com/YagorVitor/CodeReview/pkg/service"
	"github.com/YagorVitor/CodeReview/pkg/thread"
)

var (
	viewMaxDepth   int
	viewCollapse   []int64
	viewWidth      int
	commentContent string
	commentReplyTo int64
	deleteYes      bool
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Read and write comment threads",
	Long:  "View the comment thread of a post, add comments and replies, and delete your own comments",
}

var viewCommentsCmd = &cobra.Command{
	Use:   "view <post-id>",
	Short: "View comments on a post",
	Long:  "Display the comment thread of a post with nested replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, err := parseID(args[0], "post-id")
		if err != nil {
			return err
		}

		depth := viewMaxDepth
		if !cmd.Flags().Changed("max-depth") {
			depth = config.GetInt("thread.max_depth")
		}
		width := viewWidth
		if width == 0 {
			width = terminalWidth()
		}

		svc := service.NewCommentService(backend(), sess)
		return svc.View(cmd.Context(), postID, service.ViewOptions{
			MaxDepth: depth,
			Collapse: viewCollapse,
			Width:    width,
		})
	},
}

var createCommentCmd = &cobra.Command{
	Use:   "create <post-id>",
	Short: "Comment on a post",
	Long: `Comment on a post, or reply to one of its comments with --reply-to.
Without --content an interactive composer opens with @mention suggestions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, err := parseID(args[0], "post-id")
		if err != nil {
			return err
		}
		var replyTo *int64
		if cmd.Flags().Changed("reply-to") {
			if commentReplyTo <= 0 {
				return clierrors.ValidationError("reply-to", "must be a positive number")
			}
			replyTo = &commentReplyTo
		}

		svc := service.NewCommentService(backend(), sess)
		if commentContent != "" {
			_, err := svc.Create(cmd.Context(), postID, replyTo, commentContent)
			return err
		}
		if !interactive() {
			content, err := prompter.PromptMultilineString("Comment", 50)
			if err != nil {
				return err
			}
			_, err = svc.Create(cmd.Context(), postID, replyTo, content)
			return err
		}
		return composeComment(cmd.Context(), svc, postID, replyTo)
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:   "delete <post-id> <comment-id>",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, err := parseID(args[0], "post-id")
		if err != nil {
			return err
		}
		commentID, err := parseID(args[1], "comment-id")
		if err != nil {
			return err
		}

		svc := service.NewCommentService(backend(), sess)
		return svc.Delete(cmd.Context(), postID, commentID, confirmDelete)
	},
}

func init() {
	viewCommentsCmd.Flags().IntVar(&viewMaxDepth, "max-depth", 4, "Reply depth at which indentation stops growing (default from thread.max_depth)")
	viewCommentsCmd.Flags().Int64SliceVar(&viewCollapse, "collapse", nil, "Comment ids whose replies are hidden")
	viewCommentsCmd.Flags().IntVar(&viewWidth, "width", 0, "Truncate lines to this width (default: terminal width)")

	createCommentCmd.Flags().StringVarP(&commentContent, "content", "c", "", "Comment text")
	createCommentCmd.Flags().Int64Var(&commentReplyTo, "reply-to", 0, "Id of the comment to reply to")

	deleteCommentCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")

	commentCmd.AddCommand(viewCommentsCmd)
	commentCmd.AddCommand(createCommentCmd)
	commentCmd.AddCommand(deleteCommentCmd)
}

func composeComment(ctx context.Context, svc *service.CommentService, postID int64, replyTo *int64) error {
	th, store, err := svc.Open(ctx, postID)
	if err != nil {
		return err
	}
	defer th.Close()

	d, err := svc.Draft(th, store, replyTo)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Comment on post #%d", postID)
	if replyTo != nil {
		title = fmt.Sprintf("Reply to comment #%d", *replyTo)
		if parent, ok := model.FindComment(store.Comments(postID), *replyTo); ok {
			title += " by " + parent.Author.Name()
		}
	}

	var created *model.Comment
	var refreshErr *thread.RefreshError
	err = tui.Compose(ctx, tui.Options{
		Title:       title,
		Placeholder: "Write a comment. Type @ to mention someone.",
		Width:       min(terminalWidth(), 100) - 4,
		Lookup:      svc.Lookup(),
		Submit: func(ctx context.Context, text string) error {
			c, rErr, err := svc.Send(ctx, th, d, text)
			if err != nil {
				return err
			}
			created, refreshErr = c, rErr
			return nil
		},
	})
	if errors.Is(err, tui.ErrCancelled) {
		output.PrintInfo("Nothing posted")
		return nil
	}
	if err != nil {
		return err
	}
	svc.Report(created, refreshErr)
	return nil
}

func confirmDelete(c model.Comment) bool {
	if deleteYes {
		return true
	}
	fmt.Fprintf(prompter.Out, "#%d by %s: %s\n", c.ID, c.Author.Name(), formatter.Preview(c.Content, formatter.PreviewWidth))
	ok, err := prompter.PromptConfirm("Delete this comment?")
	if err != nil {
		return false
	}
	return ok
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

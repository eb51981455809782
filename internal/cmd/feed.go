package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YagorVitor/CodeReview/pkg/service"
)

var (
	feedPage    int
	feedPerPage int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the post feed",
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts in the feed",
	Long:  "Show one page of posts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewFeedService(backend()).List(cmd.Context(), feedPage, feedPerPage)
		return err
	},
}

func init() {
	feedListCmd.Flags().IntVar(&feedPage, "page", 1, "Page number")
	feedListCmd.Flags().IntVar(&feedPerPage, "per-page", 20, "Posts per page")

	feedCmd.AddCommand(feedListCmd)
}

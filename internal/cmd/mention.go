package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/YagorVitor/CodeReview/pkg/prompter"
	"github.com/YagorVitor/CodeReview/pkg/service"
)

var mentionCmd = &cobra.Command{
	Use:   "mention",
	Short: "Work with @mentions",
	Long:  "Suggest usernames, check that mentions resolve, and render mentions as profile links",
}

var mentionSuggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Suggest users matching a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewMentionService(backend()).PrintSuggestions(cmd.Context(), args[0])
	},
}

var mentionCheckCmd = &cobra.Command{
	Use:   "check <text|->",
	Short: "Check that every mention in text names a real user",
	Long:  "Check that every @mention in the text resolves. Pass - to read the text from stdin.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readArg(args)
		if err != nil {
			return err
		}
		_, err = service.NewMentionService(backend()).Check(cmd.Context(), text)
		return err
	},
}

var mentionRenderCmd = &cobra.Command{
	Use:   "render <text|->",
	Short: "Render mentions as profile links",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readArg(args)
		if err != nil {
			return err
		}
		return service.NewMentionService(backend()).Render(text)
	},
}

func init() {
	mentionCmd.AddCommand(mentionSuggestCmd)
	mentionCmd.AddCommand(mentionCheckCmd)
	mentionCmd.AddCommand(mentionRenderCmd)
}

// readArg joins args, or reads stdin when the only arg is "-".
func readArg(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		return prompter.PromptMultilineString("Text", 200)
	}
	return strings.Join(args, " "), nil
}

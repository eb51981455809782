package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/YagorVitor/CodeReview/pkg/api"
	"github.com/YagorVitor/CodeReview/pkg/auth"
	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/config"
	clierrors "github.com/YagorVitor/CodeReview/pkg/errors"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/output"
	"github.com/YagorVitor/CodeReview/pkg/session"
)

var (
	verbose    bool
	configPath string
	outputFmt  string

	// sess is the restored session, nil when signed out
	sess *session.Session
)

var rootCmd = &cobra.Command{
	Use:   "codereview-cli",
	Short: "CodeReview+ CLI - Code snippets, threads and mentions",
	Long: `CodeReview+ CLI is a command-line client for the CodeReview+
code sharing platform. Browse the feed, read and write comment threads,
and mention other developers directly from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		logger.Init(verbose)

		if cmd.Flags().Changed("output") {
			if !output.ValidateOutputFormat(outputFmt) {
				return clierrors.ValidationError("output", "must be text, json or table")
			}
			config.Set("output.format", outputFmt)
		}

		client.Init()

		restored, err := auth.NewSessionRecovery().Restore()
		if err != nil && !errors.Is(err, session.ErrNotLoggedIn) {
			logger.Warn("Could not restore session", "error", err)
		}
		sess = restored
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, clierrors.FormatError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/codereview/cli/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json, table")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(mentionCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(versionCmd)
}

func backend() *api.Backend {
	return api.NewBackend()
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, clierrors.ValidationError(what, "must be a positive number")
	}
	return id, nil
}

// interactive reports whether the composer can take over the terminal.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

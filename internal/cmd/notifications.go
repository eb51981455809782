package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YagorVitor/CodeReview/pkg/service"
	"github.com/YagorVitor/CodeReview/pkg/session"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "View and watch notifications",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		if sess == nil {
			return session.ErrNotLoggedIn
		}
		return nil
	},
}

var listNotificationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewNotificationService().List(cmd.Context())
		return err
	},
}

var watchNotificationsCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print new notifications as they arrive",
	Long:  "Poll for notifications at notifications.poll_interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return service.NewNotificationService().Watch(ctx, service.PrintNotification)
	},
}

var readNotificationCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "id")
		if err != nil {
			return err
		}
		return service.NewNotificationService().MarkRead(cmd.Context(), id)
	},
}

func init() {
	notificationsCmd.AddCommand(listNotificationsCmd)
	notificationsCmd.AddCommand(watchNotificationsCmd)
	notificationsCmd.AddCommand(readNotificationCmd)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YagorVitor/CodeReview/pkg/service"
)

var (
	loginEmail    string
	loginPassword string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage authentication with CodeReview+",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to CodeReview+",
	Long:  "Authenticate with email and password. Missing values are prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService()
		if loginEmail != "" && loginPassword != "" {
			_, err := authSvc.Login(cmd.Context(), loginEmail, loginPassword)
			return err
		}
		_, err := authSvc.PromptLogin(cmd.Context())
		return err
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from CodeReview+",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService().Logout()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewAuthService().Status()
		return err
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/studyhub/packages/api"
)

var (
	userEmailFlag string
	userNameFlag  string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List and create users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		users, err := s.client.ListUsers(ctx)
		if err != nil {
			return err
		}
		s.out.FormatUsers(users)
		return nil
	}),
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user record",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		if userEmailFlag == "" || userNameFlag == "" {
			return usageError("--email and --name are required")
		}
		u, err := s.client.CreateUser(ctx, api.CreateUser{Email: userEmailFlag, Name: userNameFlag})
		if err != nil {
			return err
		}
		s.out.FormatUsers([]api.User{*u})
		return nil
	}),
}

func init() {
	usersCreateCmd.Flags().StringVar(&userEmailFlag, "email", "", "User email")
	usersCreateCmd.Flags().StringVar(&userNameFlag, "name", "", "User name")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
}

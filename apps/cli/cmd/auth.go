package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	emailFlag    string
	passwordFlag string
	nameFlag     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long: `Sign in with email and password. The token the backend returns is
stored in the configured token store and sent with every later request.

Examples:
  studyhub login --email ada@example.com --password secret
  STUDYHUB_PASSWORD=secret studyhub login --email ada@example.com`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		if emailFlag == "" || passwordFlag == "" {
			return usageError("--email and --password are required")
		}
		msg, err := s.client.SignIn(ctx, emailFlag, passwordFlag)
		if err != nil {
			return err
		}
		s.out.FormatSuccess(valueOr(msg, "Signed in"))
		return nil
	}),
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and store the session token",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		if nameFlag == "" || emailFlag == "" || passwordFlag == "" {
			return usageError("--name, --email and --password are required")
		}
		msg, err := s.client.SignUp(ctx, nameFlag, emailFlag, passwordFlag)
		if err != nil {
			return err
		}
		s.out.FormatSuccess(valueOr(msg, "Signed up"))
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		if err := s.client.SignOut(ctx); err != nil {
			return err
		}
		s.out.FormatSuccess("Signed out")
		return nil
	}),
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		p, err := s.client.Profile(ctx)
		if err != nil {
			return err
		}
		s.out.FormatProfile(p)
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&emailFlag, "email", "", "Account email")
		c.Flags().StringVar(&passwordFlag, "password", getEnvString("STUDYHUB_PASSWORD", ""), "Account password (env: STUDYHUB_PASSWORD)")
	}
	signupCmd.Flags().StringVar(&nameFlag, "name", "", "Display name")
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

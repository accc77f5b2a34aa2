package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/studyhub/packages/output"
)

var saveConfigFlag string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved backend and session state",
	Long: `Show which backend studyhub talks to, whether it was configured or
is the built-in default, and whether a session token is stored.

Examples:
  studyhub config
  studyhub config --save .studyhub.yaml`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		backend := s.cfg.Backend()
		if !backend.IsConfigured() {
			s.logger.Warn("Backend URL not configured, using the default",
				slog.String("component", "cmd.config"),
				slog.String("backend", backend.BaseURL()),
			)
		}

		signedIn, err := s.client.SignedIn(ctx)
		if err != nil {
			return err
		}

		hc := s.client.HTTP()
		s.out.FormatBackend(output.BackendInfo{
			BaseURL:    hc.BaseURL(),
			Configured: hc.BackendConfigured(),
			TokenStore: s.cfg.TokenStore,
			SignedIn:   signedIn,
		})

		if saveConfigFlag != "" {
			if err := s.cfg.SaveConfig(saveConfigFlag); err != nil {
				return &configError{err: err}
			}
			s.out.FormatSuccess("Saved " + saveConfigFlag)
		}
		return nil
	}),
}

func init() {
	configCmd.Flags().StringVar(&saveConfigFlag, "save", "", "Write the resolved configuration to a .json or .yaml file")
}

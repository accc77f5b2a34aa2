package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/studyhub/packages/logger"
	"github.com/abdul-hamid-achik/studyhub/packages/mock"
)

var (
	mockPortFlag    int
	mockDelayFlag   string
	mockVerboseFlag bool
	mockUsersFlag   []string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run an in-memory stand-in for the backend",
	Long: `Start an HTTP server that answers the backend's routes from memory.
Nothing is persisted; stopping the server forgets every user and group.

Examples:
  studyhub mock
  studyhub mock --port 8001 --delay 100ms
  studyhub mock --user "Ada:ada@example.com:secret" --verbose`,
	Args: cobra.NoArgs,
	RunE: mockCommand,
}

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", 8000, "Port to run the mock server on")
	mockCmd.Flags().StringVarP(&mockDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	mockCmd.Flags().BoolVarP(&mockVerboseFlag, "verbose", "v", false, "Log every request")
	mockCmd.Flags().StringArrayVar(&mockUsersFlag, "user", nil, "Seed a user as name:email:password (repeatable)")
}

func mockCommand(cmd *cobra.Command, args []string) error {
	var delay time.Duration
	if mockDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(mockDelayFlag)
		if err != nil {
			return usageError("invalid delay value %q: %v", mockDelayFlag, err)
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		Writer:      cmd.ErrOrStderr(),
		NoColor:     cfg.GetNoColor(),
	})

	server := mock.NewServer(
		mock.WithPort(mockPortFlag),
		mock.WithDelay(delay),
		mock.WithVerbose(mockVerboseFlag),
		mock.WithLogger(log),
	)

	for _, entry := range mockUsersFlag {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[1] == "" {
			return usageError("invalid --user %q, expected name:email:password", entry)
		}
		server.Backend().AddUser(parts[0], parts[1], parts[2])
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Mock backend on http://127.0.0.1:%d (%d routes)\n", mockPortFlag, len(server.GetRoutes()))
	return server.StartWithContext(cmd.Context())
}

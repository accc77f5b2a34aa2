package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/studyhub/packages/api"
	"github.com/abdul-hamid-achik/studyhub/packages/http"
	"github.com/abdul-hamid-achik/studyhub/packages/output"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag     string
	envFileFlag    string
	tokenStoreFlag string
	logLevelFlag   string
	timeoutFlag    string
	outputFlag     string
	noColorFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "studyhub",
	Short: "Command line client for the study group backend",
	Long: `studyhub talks to the study group backend: sign in, browse and
create study groups, and check that the backend is reachable.

The backend URL comes from STUDYHUB_BACKEND_URL (environment, .env file or
config file) and falls back to http://127.0.0.1:8000.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		output.NewConsoleFormatter(output.WithWriter(os.Stderr), output.WithNoColor(noColorFlag)).FormatError(err)
		os.Exit(exitCode(err))
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", getEnvString("STUDYHUB_CONFIG", ""), "Path to config file (env: STUDYHUB_CONFIG)")
	flags.StringVar(&envFileFlag, "env-file", getEnvString("STUDYHUB_ENV_FILE", ""), "Path to .env file (env: STUDYHUB_ENV_FILE)")
	flags.StringVar(&tokenStoreFlag, "token-store", "", "Token store: memory:, sqlite:path, file://path or a path (env: STUDYHUB_TOKEN_STORE)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (env: STUDYHUB_LOG_LEVEL)")
	flags.StringVar(&timeoutFlag, "timeout", "", "Request timeout (e.g., 30s, 1m) (env: STUDYHUB_TIMEOUT, milliseconds)")
	flags.StringVarP(&outputFlag, "output", "o", getEnvString("STUDYHUB_OUTPUT", "console"), "Output format: console, json (env: STUDYHUB_OUTPUT)")
	flags.BoolVar(&noColorFlag, "no-color", getEnvBool("STUDYHUB_NO_COLOR", false), "Disable colored output (env: STUDYHUB_NO_COLOR)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", fixedValues("console", "json"))
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", fixedValues("debug", "info", "warn", "error"))

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// configError marks failures to resolve configuration
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// exitError carries an explicit exit code
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var ce *configError
	if errors.As(err, &ce) {
		return ExitConfigError
	}
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		return ExitValidationError
	}

	switch http.Classify(err) {
	case http.KindUnauthorized:
		return ExitAuthError
	case http.KindNetwork:
		return ExitNetworkError
	}
	return ExitFailure
}

func usageError(format string, args ...any) error {
	return &exitError{code: ExitUsageError, msg: fmt.Sprintf(format, args...)}
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

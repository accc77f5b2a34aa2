package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/studyhub/packages/api"
	"github.com/abdul-hamid-achik/studyhub/packages/auth/token"
	"github.com/abdul-hamid-achik/studyhub/packages/core/config"
	"github.com/abdul-hamid-achik/studyhub/packages/http"
	"github.com/abdul-hamid-achik/studyhub/packages/logger"
	"github.com/abdul-hamid-achik/studyhub/packages/output"
)

// session is everything a command needs to talk to the backend
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	tokens token.Store
	nav    *output.SessionNavigator
	client *api.Client
	out    output.Formatter
}

// loadConfig resolves configuration and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath: configFlag,
		EnvFile:    envFileFlag,
	})
	if err != nil {
		return nil, &configError{err: err}
	}

	flags := &config.Config{
		TokenStore: tokenStoreFlag,
		LogLevel:   logLevelFlag,
	}
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil || d <= 0 {
			return nil, &configError{err: fmt.Errorf("invalid timeout %q", timeoutFlag)}
		}
		flags.Timeout = int(d.Milliseconds())
	}
	if cmd.Flags().Changed("no-color") {
		flags.NoColor = config.BoolPtr(noColorFlag)
	}
	return cfg.Merge(flags), nil
}

// newSession builds the client stack. Configuration is resolved first, the
// http client is built from it, and the api client sits on top.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		Writer:      cmd.ErrOrStderr(),
		NoColor:     cfg.GetNoColor(),
	})

	out, err := output.New(outputFlag, cmd.OutOrStdout(), cfg.GetNoColor())
	if err != nil {
		return nil, &exitError{code: ExitUsageError, msg: err.Error()}
	}

	tokens, err := token.Open(cfg.TokenStore)
	if err != nil {
		return nil, &configError{err: fmt.Errorf("opening token store: %w", err)}
	}
	if fs, ok := tokens.(*token.FileStore); ok {
		// another studyhub process may sign in or out while this one runs
		if err := fs.Watch(cmd.Context()); err != nil {
			log.Debug("Token file watch unavailable",
				slog.String("component", "cmd.newSession"),
				slog.String("path", fs.Path()),
				slog.String("error", err.Error()),
			)
		}
	}

	nav := output.NewSessionNavigator(cmd.ErrOrStderr())
	hc := http.FromBackend(cfg.Backend(),
		http.WithTimeout(cfg.TimeoutDuration()),
		http.WithDefaultHeaders(cfg.Headers),
		http.WithDefaultHeader("User-Agent", "studyhub/"+version),
		http.WithRequestID(cfg.GetRequestID()),
		http.WithTokenSource(tokens),
		http.WithNavigator(nav),
		http.WithLogger(log),
	)

	log.Debug("Session ready",
		slog.String("component", "cmd.newSession"),
		slog.String("backend", hc.BaseURL()),
		slog.Bool("configured", hc.BackendConfigured()),
		slog.String("token_store", cfg.TokenStore),
	)

	return &session{
		cfg:    cfg,
		logger: log,
		tokens: tokens,
		nav:    nav,
		client: api.New(hc, tokens, api.WithLogger(log)),
		out:    out,
	}, nil
}

func (s *session) Close() error {
	if c, ok := s.tokens.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// withSession runs fn with a fresh session and closes it afterwards.
func withSession(fn func(ctx context.Context, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(logger.ContextWithLogger(cmd.Context(), s.logger), s, args)
	}
}

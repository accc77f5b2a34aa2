package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/studyhub/packages/logger"
	"github.com/abdul-hamid-achik/studyhub/packages/output"
	"github.com/abdul-hamid-achik/studyhub/packages/stats"
)

var (
	pingCountFlag       int
	pingRateFlag        float64
	pingConcurrencyFlag int
	pingMaxP95Flag      time.Duration
	pingMaxErrorsFlag   float64
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Measure backend reachability and latency",
	Long: `Call the backend's landing route repeatedly at a fixed rate and report
latency percentiles. Thresholds turn the run into a check.

Examples:
  studyhub ping
  studyhub ping --count 100 --rate 20 --concurrency 4
  studyhub ping --max-p95 200ms --max-error-rate 0.01`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		if pingCountFlag < 1 {
			return usageError("--count must be at least 1")
		}
		if pingRateFlag <= 0 {
			return usageError("--rate must be positive")
		}
		if pingConcurrencyFlag < 1 {
			return usageError("--concurrency must be at least 1")
		}

		rec := stats.NewRecorder()
		err := runPings(ctx, pingCountFlag, pingConcurrencyFlag, rate.NewLimiter(rate.Limit(pingRateFlag), 1), rec,
			func(ctx context.Context) error {
				_, err := s.client.Health(ctx)
				return err
			})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		report := output.PingReport{
			URL:     s.client.HTTP().BaseURL() + "/",
			Summary: rec.Summary(),
			Thresholds: stats.Thresholds{
				P95:       pingMaxP95Flag,
				ErrorRate: pingMaxErrorsFlag,
			}.Evaluate(rec.Summary()),
		}
		s.out.FormatPing(report)

		if report.Summary.Success == 0 {
			return &exitError{code: ExitNetworkError, msg: "backend unreachable"}
		}
		if !report.Passed() {
			return &exitError{code: ExitFailure, msg: "ping thresholds not met"}
		}
		return nil
	}),
}

// runPings performs count calls across workers, each call waiting on limiter.
func runPings(ctx context.Context, count, workers int, limiter *rate.Limiter, rec *stats.Recorder, call func(context.Context) error) error {
	jobs := make(chan struct{})
	var wg sync.WaitGroup

	rec.Start()
	defer rec.Stop()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				start := time.Now()
				err := call(ctx)
				rec.Record(time.Since(start), err)
				if err != nil {
					logger.FromContext(ctx).Debug("Ping failed",
						slog.String("component", "cmd.ping"),
						slog.String("error", err.Error()),
					)
				}
			}
		}()
	}

	var err error
	for i := 0; i < count; i++ {
		if werr := limiter.Wait(ctx); werr != nil {
			err = fmt.Errorf("ping interrupted: %w", werr)
			break
		}
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
	return err
}

func init() {
	pingCmd.Flags().IntVarP(&pingCountFlag, "count", "c", getEnvInt("STUDYHUB_PING_COUNT", 10), "Number of calls (env: STUDYHUB_PING_COUNT)")
	pingCmd.Flags().Float64VarP(&pingRateFlag, "rate", "r", 5, "Calls per second")
	pingCmd.Flags().IntVar(&pingConcurrencyFlag, "concurrency", 1, "Concurrent calls in flight")
	pingCmd.Flags().DurationVar(&pingMaxP95Flag, "max-p95", 0, "Fail if p95 latency exceeds this (e.g., 200ms)")
	pingCmd.Flags().Float64Var(&pingMaxErrorsFlag, "max-error-rate", 0, "Fail if the error ratio exceeds this (0..1)")
}

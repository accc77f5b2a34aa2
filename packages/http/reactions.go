package http

import (
	"context"
	"log/slog"
)

// FailureHandler reacts to a failed call. Handlers observe the failure; they
// can't replace or swallow it.
type FailureHandler func(ctx context.Context, kind Kind, err *Error)

// ClearTokenOnUnauthorized deletes the stored token after a 401.
func ClearTokenOnUnauthorized(tokens TokenSource, logger *slog.Logger) FailureHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, kind Kind, err *Error) {
		if kind != KindUnauthorized || tokens == nil {
			return
		}
		// the request context may already be done; the cleanup must still happen
		if derr := tokens.Delete(context.WithoutCancel(ctx)); derr != nil {
			logger.Warn("Failed to clear stored token",
				slog.String("component", "http.ClearTokenOnUnauthorized"),
				slog.String("error", derr.Error()),
			)
		}
	}
}

// NavigateOnUnauthorized sends the user to LoginPath after a 401.
func NavigateOnUnauthorized(nav Navigator) FailureHandler {
	return func(_ context.Context, kind Kind, _ *Error) {
		if kind != KindUnauthorized || nav == nil {
			return
		}
		nav.Navigate(LoginPath)
	}
}

// LogNetworkFailure writes one error line when the server could not be reached.
func LogNetworkFailure(logger *slog.Logger) FailureHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(_ context.Context, kind Kind, err *Error) {
		if kind != KindNetwork {
			return
		}
		attrs := []any{
			slog.String("component", "http.LogNetworkFailure"),
			slog.String("method", err.Method),
			slog.String("url", err.URL),
		}
		if err.Cause != nil {
			attrs = append(attrs, slog.String("error", err.Cause.Error()))
		}
		logger.Error("Network error - please check your connection", attrs...)
	}
}

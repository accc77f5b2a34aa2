package cmd

// Exit codes for studyhub CLI
const (
	// ExitSuccess indicates the command succeeded
	ExitSuccess = 0

	// ExitFailure indicates the backend rejected the request or a check failed
	ExitFailure = 1

	// ExitValidationError indicates input was rejected before sending
	ExitValidationError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitAuthError indicates the backend answered 401
	ExitAuthError = 5

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

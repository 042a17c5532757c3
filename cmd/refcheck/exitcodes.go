package main

// Exit codes shared across all refcheck commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid values)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
	ExitNotFound    = 4 // Article or report not found
	ExitAPIError    = 5 // Metadata registry error (rate limit, network)
)

package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidTimeframe     ErrorCode = 102
	ErrCodeUnknownPair          ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 104
	ErrCodeInvalidSide          ErrorCode = 105
	ErrCodeIncompatibleVersion  ErrorCode = 106

	// Data errors (200-299)
	ErrCodeDataNotFound  ErrorCode = 200
	ErrCodeEmptySeries   ErrorCode = 201
	ErrCodeMalformedBook ErrorCode = 202

	// Scheduling errors (300-399)
	ErrCodeSchedulerShutdown ErrorCode = 301

	// Feed and server errors (400-499)
	ErrCodeFeedNotStarted     ErrorCode = 400
	ErrCodeFeedAlreadyStarted ErrorCode = 401
	ErrCodeServerStartFailed  ErrorCode = 402
	ErrCodeEncodeFailed       ErrorCode = 403
)

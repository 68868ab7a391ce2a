package apperror

// AppError carries the HTTP status a domain error should surface with.
// Domain packages declare their sentinels with New and handlers funnel them
// through response.Error, which maps Code to the response status.
type AppError struct {
	Code    int    // HTTP status (e.g. 400, 404, 409)
	Message string // user-facing message
	Err     error  // underlying cause, never exposed to the client
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New returns an AppError sentinel with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap annotates an underlying error with a status code and message.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

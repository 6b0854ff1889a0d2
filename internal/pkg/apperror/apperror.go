package apperror

// AppError is an error that carries the HTTP status code it should surface as.
type AppError struct {
	Code    int    // HTTP status code (e.g. 400, 404)
	Message string // User-facing error message
	Err     error  // Underlying error, if any (not exposed to the user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

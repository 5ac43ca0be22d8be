package theme

// Errors returned by the Manager. Callers should test with errors.Is; most
// returned errors wrap one of these with the offending theme name or path.
var (
	ErrNotFound         = themeError("theme not found")
	ErrInvalidName      = themeError("invalid theme name")
	ErrInvalidFormat    = themeError("invalid theme format")
	ErrAlreadyExists    = themeError("theme already exists")
	ErrInvalidOperation = themeError("operation not allowed for theme")
	ErrIO               = themeError("theme i/o error")
	ErrClosed           = themeError("theme manager is closed")
)

type themeError string

func (e themeError) Error() string {
	return string(e)
}

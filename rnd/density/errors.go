package density

import "errors"

// Errors returned by the estimators.
var (
	ErrTooFewStrikes  = errors.New("density: at least three strikes are required")
	ErrNoVolatilities = errors.New("density: too few implied volatilities to fit a smile")
	ErrFitFailed      = errors.New("density: fit did not produce a usable result")
	ErrUnknownMethod  = errors.New("density: unknown method")
	ErrInvalidInput   = errors.New("density: invalid input")
	ErrZeroMass       = errors.New("density: density has no positive mass")
)

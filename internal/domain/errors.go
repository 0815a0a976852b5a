package domain

import "errors"

// Errors returned by the regridding core. Callers wrap them with context and
// match with errors.Is.
var (
	// ErrInvalidGridShape reports coordinate arrays whose dimensionality cannot
	// be combined into a single point set.
	ErrInvalidGridShape = errors.New("invalid grid shape")

	// ErrUnsupportedLayout reports a field whose dimension order is not
	// supported (e.g. a time dimension that is not the leading one).
	ErrUnsupportedLayout = errors.New("unsupported field layout")

	// ErrInvalidParameter reports a query or strategy parameter out of range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupportedMethod reports an unknown remap method name.
	ErrUnsupportedMethod = errors.New("unsupported remap method")

	// ErrNotImplemented reports a recognised but reserved operation.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidField reports a field whose values, dims and coords disagree.
	ErrInvalidField = errors.New("invalid field")

	// ErrCoordNotFound reports a coordinate name missing from a field.
	ErrCoordNotFound = errors.New("coordinate not found")

	// ErrFieldNotFound reports a missing data file or variable.
	ErrFieldNotFound = errors.New("field not found")
)

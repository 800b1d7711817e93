package engine

import "errors"

// Every failure below aborts the whole operation that raised it; the engine
// applies no partial state on an error return. Callers should treat them as
// rejected requests, not system faults.
var (
	ErrInvalidParameter = errors.New("invalid market parameter")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidSize      = errors.New("invalid size")
	ErrSelfMatch        = errors.New("self match")
	ErrOrderNotFound    = errors.New("order not found")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrMarketNotFound   = errors.New("market not found")
)

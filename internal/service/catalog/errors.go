package catalog

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrInternal        = errors.New("service: internal error")
)

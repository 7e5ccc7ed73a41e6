package sessionstore

import "errors"

var (
	ErrMarshal   = errors.New("sessionstore: failed to encode attempt")
	ErrUnmarshal = errors.New("sessionstore: failed to decode attempt")
	ErrRedis     = errors.New("sessionstore: redis command failed")
)

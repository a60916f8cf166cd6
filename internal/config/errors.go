package config

import "errors"

var (
	ErrRedisAddrMissing        = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB          = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidStoreBackend     = errors.New("STORE_BACKEND must be \"memory\" or \"redis\"")
	ErrInvalidDispatchInterval = errors.New("DISPATCH_INTERVAL must be a positive duration")
)

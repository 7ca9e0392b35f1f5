package config

import (
	"errors"
)

// Sentinel error kinds for this package, usable with errors.Is from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

package config

import "errors"

var errConfigInvalid = errors.New("invalid config")

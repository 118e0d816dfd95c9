package db

import "errors"

var errUnknownSeedPermission = errors.New("seed file references unknown permission")
var errUnknownSeedRole = errors.New("seed file references unknown role")

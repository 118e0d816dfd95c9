package dummy

import "errors"

var errDummyNotFound = errors.New("dummy vm not found")
var errDummyDestroyed = errors.New("dummy vm is destroyed")

package powerlog

import "errors"

var errPowerLogInvalid = errors.New("power log vm not specified")

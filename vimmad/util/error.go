package util

import "errors"

var errInvalidVMName = errors.New("invalid VM name")
var errInvalidCIDR = errors.New("invalid CIDR")

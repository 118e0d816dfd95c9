package ec2

import "errors"

var errNoInstanceID = errors.New("machine has no instance id")
var errNoSecurityGroupID = errors.New("machine has no security group id")
var errNoAddressYet = errors.New("instance has no address yet")

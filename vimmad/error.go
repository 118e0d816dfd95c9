package main

import "errors"

var (
	errNotAuthorized   = errors.New("not authorized")
	errVMGone          = errors.New("VM already destroyed")
	errUnknownPowerOp  = errors.New("unknown power operation")
	errOverrideTooLong = errors.New("override longer than the provider allows")
	errStillReferenced = errors.New("still referenced by VMs")
)

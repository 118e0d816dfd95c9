package vm

import "errors"

var errVMNotFound = errors.New("vm not found")
var errVMDupe = errors.New("vm already exists")
var errVMInvalid = errors.New("vm project, config or provider not specified")
var errVMInvalidName = errors.New("vm name not specified or invalid")
var errVMInternalDB = errors.New("internal vm database error")
var errVMDestroyed = errors.New("vm is destroyed")

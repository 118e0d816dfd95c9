package vmconfig

import "errors"

var errVMConfigNotFound = errors.New("vm config not found")
var errVMConfigDupe = errors.New("vm config already exists")
var errVMConfigInvalid = errors.New("vm config name or provider not specified or invalid")
var errVMConfigBadExtras = errors.New("vm config extras is not valid JSON")
var errVMConfigInternalDB = errors.New("internal vm config database error")

package project

import "errors"

var errProjectNotFound = errors.New("project not found")
var errProjectInvalidName = errors.New("project name not specified or invalid")
var errProjectInternalDB = errors.New("internal project database error")

package user

import "errors"

var errUserNotFound = errors.New("user not found")
var errUserDupe = errors.New("user already exists")
var errUserInvalidName = errors.New("username not specified or invalid")
var errUserInternalDB = errors.New("internal user database error")

package schedule

import "errors"

var errScheduleNotFound = errors.New("schedule not found")
var errScheduleDupe = errors.New("schedule already exists")
var errScheduleInvalidName = errors.New("schedule name not specified or invalid")
var errScheduleInternalDB = errors.New("internal schedule database error")
var errScheduleBadMatrix = errors.New("invalid schedule matrix")
var errScheduleBadTimeZone = errors.New("invalid timezone")

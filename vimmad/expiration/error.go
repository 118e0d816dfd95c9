package expiration

import "errors"

var errExpirationNotFound = errors.New("expiration not found")
var errExpirationInvalid = errors.New("expiration kind or target not specified")
var errExpirationInternalDB = errors.New("internal expiration database error")
var errOffsetsNotAscending = errors.New("notification offsets not strictly ascending")
var errExpiryInPast = errors.New("requested expiry date is in the past")
var errExpiryBeyondCap = errors.New("requested expiry date is beyond the allowed cap")

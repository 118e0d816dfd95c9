package provider

import "errors"

// ErrTransient marks a provider failure worth retrying. Adapters wrap it,
// task handlers test for it with errors.Is.
var ErrTransient = errors.New("transient provider error")

var errProviderNotFound = errors.New("provider not found")
var errProviderDupe = errors.New("provider already exists")
var errProviderInvalid = errors.New("provider name or kind not specified or invalid")
var errProviderInternalDB = errors.New("internal provider database error")
var errNoAdapter = errors.New("no adapter registered for provider kind")

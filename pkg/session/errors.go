package session

import "errors"

var (
	// ErrSessionExists is returned when creating a session for a device
	// that already has one.
	ErrSessionExists = errors.New("session already exists")

	// ErrUnknownDevice is returned for operations on a device without a
	// session.
	ErrUnknownDevice = errors.New("unknown device")

	// ErrRegistryClosed is returned by CreateSession after Close.
	ErrRegistryClosed = errors.New("registry closed")
)

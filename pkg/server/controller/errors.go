package controller

import (
	"fmt"
)

// ErrNotFound implements "error", for the description see Error.
type ErrNotFound struct {
	Query string
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("no test results found for '%s'", err.Query)
}

// ErrTypeInference implements "error", for the description see Error.
type ErrTypeInference struct {
	DeviceID string
}

func (err ErrTypeInference) Error() string {
	return fmt.Sprintf("unable to infer the device type of '%s' from its test results", err.DeviceID)
}

// ErrUnknownDeviceType implements "error", for the description see Error.
type ErrUnknownDeviceType struct {
	DeviceID   string
	DeviceType string
}

func (err ErrUnknownDeviceType) Error() string {
	return fmt.Sprintf("device '%s' reports unregistered device type '%s'", err.DeviceID, err.DeviceType)
}

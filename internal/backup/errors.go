package backup

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigMissing is returned when the configuration file does not exist.
	ErrConfigMissing = errors.New("configuration file not found")

	// ErrUnsupportedMode is returned when archive_type is "zip".
	ErrUnsupportedMode = errors.New("zip archiving is not supported. Update the configuration to use tar.*")
)

// KeyError reports a lookup of a key that is not present in the configuration.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key not found in configuration: %q", e.Key)
}

// TypeError reports a configuration value of the wrong shape.
type TypeError struct {
	Key  string
	Want string
	Got  any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("configuration key %q: want %s, got %T", e.Key, e.Want, e.Got)
}

// FatalError wraps every failure that is not one of the recoverable cases.
// Op names the step that failed.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatal(op string, err error) error {
	var fe *FatalError
	if errors.As(err, &fe) {
		return err
	}
	return &FatalError{Op: op, Err: err}
}

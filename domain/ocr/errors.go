package ocr

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication matches every *AuthenticationError.
	ErrAuthentication = errors.New("ocr authentication failed")
	// ErrNoResults is returned when recognition finds no text.
	ErrNoResults = errors.New("no table data could be extracted from the image")
	// ErrEngineUnavailable is returned for engines not compiled into this build.
	ErrEngineUnavailable = errors.New("ocr engine not available in this build")
)

// AuthenticationError reports missing or rejected service credentials.
type AuthenticationError struct {
	Engine string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: authentication failed", e.Engine)
	}
	return fmt.Sprintf("%s: authentication failed: %v", e.Engine, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

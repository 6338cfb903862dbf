package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrWaitTimeout          = errors.New("wait timed out")
	ErrScriptingUnsupported = errors.New("session does not support script evaluation")
	ErrSinkNotConfigured    = errors.New("sink is not configured")
)

// WaitError wraps a DOM wait that ran out of time.
type WaitError struct {
	Selector string
	Timeout  time.Duration
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %q", e.Timeout, e.Selector)
}

func (e *WaitError) Unwrap() error { return ErrWaitTimeout }

// NavigationError wraps a failed page load.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation error for %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// SwitchError wraps a failed fuel-grade switch. The whole city fails
// when a switch fails; grades already scraped for it are discarded.
type SwitchError struct {
	Grade Grade
	Err   error
}

func (e *SwitchError) Error() string {
	return fmt.Sprintf("grade switch error (%s): %v", e.Grade, e.Err)
}

func (e *SwitchError) Unwrap() error { return e.Err }

// SinkError wraps errors that occur while persisting results.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink error (%s): %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// SnapshotError reports a non-success status while fetching a page
// snapshot over plain HTTP.
type SnapshotError struct {
	URL        string
	StatusCode int
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot error for %s (status %d)", e.URL, e.StatusCode)
}

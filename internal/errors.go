package internal

import "fmt"

// AuthError represents a failed token request
type AuthError struct {
	StatusCode int // 0 when the failure is not an HTTP status
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication error: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("authentication error: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ListError represents a failed chat listing
type ListError struct {
	AgentID    string
	StatusCode int
	Err        error
}

func (e *ListError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("list error [%s]: status %d: %v", e.AgentID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("list error [%s]: %v", e.AgentID, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// MessageError represents a failed message fetch for a single chat
type MessageError struct {
	ChatID     ChatID
	StatusCode int
	Err        error
}

func (e *MessageError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("message error [%s]: status %d: %v", e.ChatID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("message error [%s]: %v", e.ChatID, e.Err)
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

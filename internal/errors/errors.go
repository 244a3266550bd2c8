package errors

import "fmt"

// Config errors

type ErrConfigNotFound struct {
	Path string
}

func (e *ErrConfigNotFound) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

type ErrConfigParse struct {
	Err error
}

func (e *ErrConfigParse) Error() string {
	return fmt.Sprintf("failed to parse YAML: %v", e.Err)
}

func (e *ErrConfigParse) Unwrap() error {
	return e.Err
}

type ErrConfigValidation struct {
	Err error
}

func (e *ErrConfigValidation) Error() string {
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ErrConfigValidation) Unwrap() error {
	return e.Err
}

// Database errors

type ErrDatabaseOpen struct {
	Path string
	Err  error
}

func (e *ErrDatabaseOpen) Error() string {
	return fmt.Sprintf("failed to open database %s: %v", e.Path, e.Err)
}

func (e *ErrDatabaseOpen) Unwrap() error {
	return e.Err
}

type ErrDatabaseMigration struct {
	Version int
	Err     error
}

func (e *ErrDatabaseMigration) Error() string {
	return fmt.Sprintf("database migration %d failed: %v", e.Version, e.Err)
}

func (e *ErrDatabaseMigration) Unwrap() error {
	return e.Err
}

type ErrDatabaseQuery struct {
	Operation string
	Err       error
}

func (e *ErrDatabaseQuery) Error() string {
	return fmt.Sprintf("database query failed for operation %s: %v", e.Operation, e.Err)
}

func (e *ErrDatabaseQuery) Unwrap() error {
	return e.Err
}

// OAuth errors

// ErrOAuthConfig indicates the Google OAuth client is missing required
// settings (client id, client secret or redirect URL).
type ErrOAuthConfig struct {
	Missing string
}

func (e *ErrOAuthConfig) Error() string {
	return fmt.Sprintf("google oauth is not configured: missing %s", e.Missing)
}

// ErrInvalidCode indicates an authorization code was empty or rejected
// by the provider during exchange.
type ErrInvalidCode struct {
	Err error
}

func (e *ErrInvalidCode) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authorization code exchange failed: %v", e.Err)
	}
	return "authorization code is missing or invalid"
}

func (e *ErrInvalidCode) Unwrap() error {
	return e.Err
}

// ErrMissingCredential indicates a provider-backed request arrived
// without an access token in the headers or the store.
type ErrMissingCredential struct {
	UserID string
}

func (e *ErrMissingCredential) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("no google credential available for user %s", e.UserID)
	}
	return "access token is required"
}

// Provider errors

// ErrProviderAuth indicates the provider rejected our credentials.
// Surfaced to clients as 401 so they can re-run the consent flow.
type ErrProviderAuth struct {
	Provider string
	Err      error
}

func (e *ErrProviderAuth) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Provider, e.Err)
}

func (e *ErrProviderAuth) Unwrap() error {
	return e.Err
}

// ErrProviderRequest wraps any non-auth provider failure, preserving the
// upstream status code and message for the error envelope.
type ErrProviderRequest struct {
	Provider string
	Code     int
	Message  string
	Body     string
	Err      error
}

func (e *ErrProviderRequest) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

func (e *ErrProviderRequest) Unwrap() error {
	return e.Err
}

// Validation errors

type ErrValidation struct {
	Field  string
	Reason string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Server errors

type ErrServerStart struct {
	Addr string
	Err  error
}

func (e *ErrServerStart) Error() string {
	return fmt.Sprintf("failed to start server on %s: %v", e.Addr, e.Err)
}

func (e *ErrServerStart) Unwrap() error {
	return e.Err
}

type ErrServerShutdown struct {
	Err error
}

func (e *ErrServerShutdown) Error() string {
	return fmt.Sprintf("server shutdown failed: %v", e.Err)
}

func (e *ErrServerShutdown) Unwrap() error {
	return e.Err
}

// Filesystem errors

type ErrDirectoryCreate struct {
	Path string
	Err  error
}

func (e *ErrDirectoryCreate) Error() string {
	return fmt.Sprintf("failed to create directory %s: %v", e.Path, e.Err)
}

func (e *ErrDirectoryCreate) Unwrap() error {
	return e.Err
}

type ErrFileRead struct {
	Path string
	Err  error
}

func (e *ErrFileRead) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}

func (e *ErrFileRead) Unwrap() error {
	return e.Err
}

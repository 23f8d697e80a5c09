// Package errors defines the domain error taxonomy for releasarr.
// Every error carries a stable machine-readable code, distinct from the
// human message, which the GraphQL layer surfaces as error extensions.
package errors

import (
	"errors"
	"fmt"
)

// Stable error codes.
const (
	CodeGameNotFound  = "GAME_NOT_FOUND"
	CodeNoMagnetLink  = "NO_MAGNET_LINK"
	CodeDatabaseError = "DATABASE_ERROR"
)

// GameNotFoundError signals a lookup miss surfaced as a domain error.
// startDownload does not use it; its miss is a soft-fail result.
type GameNotFoundError struct {
	Identifier string
}

func (e *GameNotFoundError) Error() string {
	return fmt.Sprintf("Game not found: %s", e.Identifier)
}

// Extensions implements the resolver-error contract of graph-gophers so
// the code reaches API clients.
func (e *GameNotFoundError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": CodeGameNotFound}
}

// NewGameNotFound builds a GameNotFoundError for the given identifier.
func NewGameNotFound(identifier string) *GameNotFoundError {
	return &GameNotFoundError{Identifier: identifier}
}

// NoMagnetLinkError signals that a download was requested for a game
// without a magnet link.
type NoMagnetLinkError struct {
	Identifier string
}

func (e *NoMagnetLinkError) Error() string {
	return fmt.Sprintf("Game %s has no magnet link available", e.Identifier)
}

func (e *NoMagnetLinkError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": CodeNoMagnetLink}
}

// DatabaseError wraps a storage failure with the failing operation and
// non-sensitive context (connection strings arrive pre-redacted).
type DatabaseError struct {
	Op      string
	Err     error
	Context string
}

func (e *DatabaseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("games store: %s: %v (%s)", e.Op, e.Err, e.Context)
	}
	return fmt.Sprintf("games store: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func (e *DatabaseError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": CodeDatabaseError, "operation": e.Op}
}

// NewDatabaseError wraps err with the failing operation name. context is
// optional non-sensitive detail such as a redacted DSN.
func NewDatabaseError(op string, err error, context string) *DatabaseError {
	return &DatabaseError{Op: op, Err: err, Context: context}
}

// IsNotFound reports whether err is a GameNotFoundError.
func IsNotFound(err error) bool {
	var nf *GameNotFoundError
	return errors.As(err, &nf)
}

package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("admin only")
	ErrNotFound           = errors.New("not found")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrStoreFailure       = errors.New("store failure")
)

// Error es un error de dominio cuyo mensaje se puede mostrar al cliente.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

// ValidationError lleva los mensajes por campo devueltos por el validador.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(msg string) error { return &Error{Kind: ErrInvalidInput, Msg: msg} }
func notFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }
func unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Msg: msg} }

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}

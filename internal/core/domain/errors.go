package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPropertyNotFound   = errors.New("property not found")
	ErrObjectExists       = errors.New("object already exists")
	ErrObjectNotFound     = errors.New("object not found")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrSessionNotFound    = errors.New("session not found")
)

// ValidationError - ошибка входных данных. Возвращается до любой записи в хранилища.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError - сбой реляционного хранилища или хранилища файлов.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

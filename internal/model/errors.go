package model

import "errors"

var (
	// Registry related errors
	ErrTypeNotRegistered  = errors.New("record type not registered")
	ErrFieldNotRegistered = errors.New("field not registered for type")

	// Metadata related errors
	ErrTemplateNotFound = errors.New("template not found")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)

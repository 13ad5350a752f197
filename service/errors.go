package service

import "errors"

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrInvalidValue    = errors.New("invalid value")
	ErrNonFiniteResult = errors.New("result is not a finite number")
)

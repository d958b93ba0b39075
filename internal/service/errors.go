package service

import "errors"

// ErrInvalidInput marks caller mistakes in create requests.
var ErrInvalidInput = errors.New("invalid input")

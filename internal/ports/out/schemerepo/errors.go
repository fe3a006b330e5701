package schemerepo

import "errors"

var (
	ErrNotFound      = errors.New("scheme not found")
	ErrAlreadyExists = errors.New("scheme already exists")
)

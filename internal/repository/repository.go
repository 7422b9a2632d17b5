// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import "errors"

// ErrConflict is returned when a write violates a unique constraint.
// Missing rows are reported with sql.ErrNoRows.
var ErrConflict = errors.New("repository: unique constraint violated")

// Forum write guards, checked inside the write transaction.
var (
	ErrThreadLimit  = errors.New("repository: thread limit reached")
	ErrThreadLocked = errors.New("repository: thread is locked")
	ErrOpeningPost  = errors.New("repository: opening post")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

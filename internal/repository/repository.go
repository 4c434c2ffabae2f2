// Package repository declares the persistence contracts of the service.
// Implementations live in subpackages and contain no business logic.
package repository

import "errors"

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("conflict: record already exists")

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

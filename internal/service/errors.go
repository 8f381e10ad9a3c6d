package service

import (
	"errors"

	"battlemap-sync-server/internal/domain"
)

var (
	ErrConflictNotFound = errors.New("no pending conflict for object")
	ErrUnknownStrategy  = errors.New("unknown resolution strategy")
)

// ConflictError signals that an edit collided with a newer server state and
// was routed into the conflict engine instead of being applied.
type ConflictError struct {
	Group *domain.ConflictGroup
}

func (e *ConflictError) Error() string {
	return "conflict detected"
}

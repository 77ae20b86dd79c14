package types

import (
	ierr "github.com/Bedotech/smartbook/internal/errors"
)

// Status is the lifecycle state of a persisted entity
type Status string

const (
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
	StatusArchived  Status = "archived"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Validate() error {
	allowed := []Status{StatusPublished, StatusDeleted, StatusArchived}
	for _, status := range allowed {
		if s == status {
			return nil
		}
	}
	return ierr.NewError("invalid status").
		WithHintf("Status must be one of: %v", allowed).
		Mark(ierr.ErrValidation)
}

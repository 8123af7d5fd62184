package branch

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("branch not found")

// Branch is a store location watched by the surveillance system. Code is
// the identifier the analytics API knows the branch by.
type Branch struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

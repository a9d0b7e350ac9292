package catalog

import (
	"time"
)

// Product is a catalog entry. Slug is always the normalized form of the
// most recently set Name and doubles as the public lookup key.
type Product struct {
	ID          int64
	Name        string
	Description *string
	Slug        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

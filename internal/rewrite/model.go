package rewrite

import (
	"time"
)

// Rewrite instructs the fallback resolver to redirect lookups of OldURL
// to NewURL. No value may appear in the OldURL or NewURL field of more
// than one rewrite; that keeps redirect chains and cycles impossible.
type Rewrite struct {
	ID        int64
	OldURL    string
	NewURL    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

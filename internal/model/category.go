package model

import "time"

// Category is a user-scoped spending category. Categories are created on
// demand when a confirmed row references a name that does not exist yet.
type Category struct {
	CreatedAt time.Time
	Name      string
	UserID    string
	ID        int64
	IsActive  bool
}

package model

import "time"

// Pattern is a learned association between a normalized transaction
// description and a category. Patterns are created from user confirmations
// during commit, scoped per user, and never deleted automatically.
type Pattern struct {
	CreatedAt      time.Time
	LastUsedAt     time.Time
	UserID         string
	Key            string // normalized raw description
	RawDescription string // as originally printed on the statement
	Category       string
	ID             int64
	HitCount       int
}

package models

import "time"

// RevisionMeta records when plan prices were last committed.
// Exactly one row exists; it is created at startup and overwritten in place.
type RevisionMeta struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	LastUpdated time.Time `gorm:"not null"` // Time of the most recent price commit.
}

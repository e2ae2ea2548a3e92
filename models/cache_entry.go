package models

import "time"

// CacheEntry is one row of the advisory lookup cache.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:512"`
	Payload   []byte    `gorm:"type:bytea;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets the table name explicitly.
func (CacheEntry) TableName() string {
	return "lookup_cache"
}

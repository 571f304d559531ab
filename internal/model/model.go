// Package model holds the entity records persisted by the repositories.
//
// Struct fields carry two tags: `db` is the column name used by pgx row mapping and
// the repository descriptors, `json` is the camelCase name on the wire.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Base is embedded by every soft-deletable record.
type Base struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt" db:"deleted_at"`
}

// RecordID lets generic code read the identifier of any record.
func (b Base) RecordID() uuid.UUID {
	return b.ID
}

// IsDeleted reports whether the record is soft-deleted.
func (b Base) IsDeleted() bool {
	return b.DeletedAt != nil
}

// Record is the constraint shared by the generic repository and service.
type Record interface {
	RecordID() uuid.UUID
}

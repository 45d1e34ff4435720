package model

import "time"

// BaseModel carries the columns shared by every persisted entity. DeletedAt
// implements soft deletion: repositories filter rows where it is set.
type BaseModel struct {
	ID        string     `db:"id" json:"id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

package models

import "time"

// StateRow is a scalar (namespace, key) -> value with optional absolute
// expiry.
type StateRow struct {
	Namespace string     `db:"namespace" json:"namespace"`
	Key       string     `db:"key" json:"key"`
	Value     *string    `db:"value" json:"value,omitempty"`
	ExpiresAt *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// StateItem is a member of a collection grouped under a parent StateRow.
type StateItem struct {
	Namespace string    `db:"namespace" json:"namespace"`
	Key       string    `db:"key" json:"key"`
	ItemKey   string    `db:"item_key" json:"itemKey"`
	Value     *string   `db:"value" json:"value,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

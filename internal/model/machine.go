package model

import "time"

// Machine represents a piece of rented equipment.
//
// Brand and Model together form the maintenance bucket: hours are summed
// across every machine sharing the same text, not per ID.
type Machine struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Brand     string    `gorm:"size:128;not null;index:idx_machines_brand_model" json:"brand"`
	Model     string    `gorm:"size:128;not null;index:idx_machines_brand_model" json:"model"`
	Year      int       `gorm:"not null" json:"year"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

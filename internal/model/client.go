package model

import "time"

// Client is a customer that machine work is billed to.
type Client struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	TaxID     string    `gorm:"size:64;not null" json:"tax_id"` // CNPJ/CPF or similar, free-form
	Address   string    `gorm:"size:512;not null" json:"address"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

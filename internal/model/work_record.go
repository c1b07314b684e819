package model

import "time"

// WorkRecord is one logged session of machine usage for a client.
type WorkRecord struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	ClientID     int64     `gorm:"index;not null" json:"client_id"`
	MachineID    int64     `gorm:"index;not null" json:"machine_id"`
	Location     string    `gorm:"size:512;not null" json:"location"`
	StartDate    string    `gorm:"size:10;not null" json:"start_date"` // dd/mm/yyyy, stored verbatim
	EndDate      string    `gorm:"size:10;not null" json:"end_date"`
	InitialMeter float64   `gorm:"not null" json:"initial_meter"`
	FinalMeter   float64   `gorm:"not null" json:"final_meter"`
	HoursWorked  float64   `gorm:"not null" json:"hours_worked"` // always FinalMeter - InitialMeter
	CreatedAt    time.Time `gorm:"index;not null" json:"created_at"`
}

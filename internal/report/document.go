// Package report assembles the renderer-agnostic maintenance report for a
// single work record.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"hourmeter-backend/internal/alarm"
	"hourmeter-backend/internal/model"
)

// Document is the sole contract with rendering collaborators. It carries data
// only; layout, fonts and file output belong to the renderer.
type Document struct {
	Number   string    `json:"number"` // record id, zero padded to five digits
	RecordID int64     `json:"record_id"`
	IssuedAt time.Time `json:"issued_at"`

	Client  ClientBlock  `json:"client"`
	Machine MachineBlock `json:"machine"`
	Session SessionBlock `json:"session"`

	Alarms     []alarm.ThresholdStatus `json:"alarms"`
	TotalHours float64                 `json:"total_hours"` // brand+model bucket total
}

type ClientBlock struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
}

type MachineBlock struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}

type SessionBlock struct {
	Location     string  `json:"location"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	InitialMeter float64 `json:"initial_meter"`
	FinalMeter   float64 `json:"final_meter"`
	HoursWorked  float64 `json:"hours_worked"`
}

// Renderer turns a Document into an artifact, typically a file path.
type Renderer interface {
	Render(doc *Document) (string, error)
}

// Assemble combines a work record, its client, its machine and the alarm
// classification of the machine's bucket.
func Assemble(rec model.WorkRecord, client model.Client, machine model.Machine, alarms alarm.Report, issuedAt time.Time) *Document {
	rows := make([]alarm.ThresholdStatus, len(alarms.Thresholds))
	copy(rows, alarms.Thresholds)

	return &Document{
		Number:   Number(rec.ID),
		RecordID: rec.ID,
		IssuedAt: issuedAt,
		Client: ClientBlock{
			Name:    client.Name,
			TaxID:   client.TaxID,
			Address: client.Address,
		},
		Machine: MachineBlock{
			Brand: machine.Brand,
			Model: machine.Model,
			Year:  machine.Year,
		},
		Session: SessionBlock{
			Location:     rec.Location,
			StartDate:    rec.StartDate,
			EndDate:      rec.EndDate,
			InitialMeter: rec.InitialMeter,
			FinalMeter:   rec.FinalMeter,
			HoursWorked:  rec.HoursWorked,
		},
		Alarms:     rows,
		TotalHours: alarms.TotalHours,
	}
}

// Number formats a record id as a report number.
func Number(id int64) string {
	return fmt.Sprintf("%05d", id)
}

// FormatHours renders an hour value with exactly two decimals, rounding half
// away from zero.
func FormatHours(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

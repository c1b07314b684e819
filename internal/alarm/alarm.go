// Package alarm classifies cumulative machine hours against the fixed
// maintenance thresholds.
//
// Hours are aggregated per brand+model bucket, not per machine: two machine
// rows carrying the same brand and model text count as one maintenance unit.
// Do not narrow this to machine IDs.
package alarm

import (
	"context"
	"fmt"
)

// Thresholds are the maintenance checkpoints in hours. They are not configurable.
var Thresholds = [...]float64{500, 1000, 1500, 2000}

// Status of a single threshold.
type Status string

const (
	StatusReached Status = "REACHED"
	StatusPending Status = "PENDING"
)

// ThresholdStatus is one row of the alarm table.
type ThresholdStatus struct {
	Hours  float64 `json:"hours"`
	Status Status  `json:"status"`
}

// Report is the alarm classification for one brand+model bucket.
type Report struct {
	Brand      string            `json:"brand"`
	Model      string            `json:"model"`
	TotalHours float64           `json:"total_hours"`
	Thresholds []ThresholdStatus `json:"thresholds"`
}

// Reached returns the thresholds already met, in ascending order.
func (r Report) Reached() []float64 {
	var out []float64
	for _, t := range r.Thresholds {
		if t.Status == StatusReached {
			out = append(out, t.Hours)
		}
	}
	return out
}

// HoursSource is the slice of the store the engine reads from.
type HoursSource interface {
	SumHoursByBrandModel(ctx context.Context, brand, model string) (float64, bool, error)
}

// Classify builds the alarm table for a known total.
func Classify(brand, model string, total float64) Report {
	rows := make([]ThresholdStatus, 0, len(Thresholds))
	for _, t := range Thresholds {
		status := StatusPending
		if total >= t {
			status = StatusReached
		}
		rows = append(rows, ThresholdStatus{Hours: t, Status: status})
	}
	return Report{Brand: brand, Model: model, TotalHours: total, Thresholds: rows}
}

// Compute sums the bucket's hours and classifies them. When the bucket has no
// records, fallback is used as the total; report generation passes the
// record's own hours here.
func Compute(ctx context.Context, src HoursSource, brand, model string, fallback float64) (Report, error) {
	total, ok, err := src.SumHoursByBrandModel(ctx, brand, model)
	if err != nil {
		return Report{}, fmt.Errorf("aggregate hours for %s %s: %w", brand, model, err)
	}
	if !ok {
		total = fallback
	}
	return Classify(brand, model, total), nil
}

// Crossed returns the thresholds reached by going from before to after.
func Crossed(before, after float64) []float64 {
	var out []float64
	for _, t := range Thresholds {
		if before < t && after >= t {
			out = append(out, t)
		}
	}
	return out
}

// Crossing is emitted when a new work session pushes a bucket past one or
// more thresholds.
type Crossing struct {
	Brand      string    `json:"brand"`
	Model      string    `json:"model"`
	RecordID   int64     `json:"record_id"`
	Before     float64   `json:"before_hours"`
	After      float64   `json:"after_hours"`
	Thresholds []float64 `json:"thresholds"`
}

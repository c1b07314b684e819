package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourmeter-backend/internal/alarm"
	"hourmeter-backend/internal/model"
)

func TestAssemble(t *testing.T) {
	issued := time.Date(2024, 1, 6, 14, 30, 0, 0, time.UTC)
	rec := model.WorkRecord{
		ID: 3, ClientID: 1, MachineID: 1, Location: "Fazenda Boa Vista",
		StartDate: "01/01/2024", EndDate: "05/01/2024",
		InitialMeter: 550, FinalMeter: 620, HoursWorked: 70,
	}
	client := model.Client{ID: 1, Name: "ACME", TaxID: "12.345.678/0001-90", Address: "Rua A, 1"}
	machine := model.Machine{ID: 1, Brand: "Cat", Model: "320", Year: 2015}
	alarms := alarm.Classify("Cat", "320", 520)

	doc := Assemble(rec, client, machine, alarms, issued)

	assert.Equal(t, "00003", doc.Number)
	assert.Equal(t, int64(3), doc.RecordID)
	assert.Equal(t, issued, doc.IssuedAt)
	assert.Equal(t, ClientBlock{Name: "ACME", TaxID: "12.345.678/0001-90", Address: "Rua A, 1"}, doc.Client)
	assert.Equal(t, MachineBlock{Brand: "Cat", Model: "320", Year: 2015}, doc.Machine)
	assert.Equal(t, SessionBlock{
		Location: "Fazenda Boa Vista", StartDate: "01/01/2024", EndDate: "05/01/2024",
		InitialMeter: 550, FinalMeter: 620, HoursWorked: 70,
	}, doc.Session)
	require.Len(t, doc.Alarms, 4)
	assert.Equal(t, alarm.StatusReached, doc.Alarms[0].Status)
	assert.Equal(t, alarm.StatusPending, doc.Alarms[1].Status)
	assert.Equal(t, 520.0, doc.TotalHours)

	// The document must not alias the alarm report it was built from.
	alarms.Thresholds[0].Status = alarm.StatusPending
	assert.Equal(t, alarm.StatusReached, doc.Alarms[0].Status)
}

func TestAssemble_JSONShape(t *testing.T) {
	doc := Assemble(model.WorkRecord{ID: 12}, model.Client{}, model.Machine{}, alarm.Classify("a", "b", 0), time.Time{})

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"number", "issued_at", "client", "machine", "session", "alarms", "total_hours"} {
		assert.Contains(t, m, key)
	}
	assert.Equal(t, "00012", m["number"])
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "00001", Number(1))
	assert.Equal(t, "12345", Number(12345))
	assert.Equal(t, "123456", Number(123456))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "50.00", FormatHours(50))
	assert.Equal(t, "0.10", FormatHours(0.1))
	assert.Equal(t, "50.10", FormatHours(150.1-100))
	assert.Equal(t, "1.13", FormatHours(1.125))
}

// Package ledger is the single point of mutation for clients, machines and
// work sessions. Every operation runs inside one ledger-wide critical section
// so that validation and the write it guards are never interleaved with
// another request.
package ledger

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"hourmeter-backend/internal/alarm"
	"hourmeter-backend/internal/model"
	"hourmeter-backend/internal/report"
	"hourmeter-backend/internal/store"
)

// Notifier receives threshold crossings produced by new work sessions.
type Notifier interface {
	Dispatch(c alarm.Crossing)
}

// Ledger serialises all access to the underlying store.
type Ledger struct {
	mu       sync.Mutex
	store    store.Store
	notifier Notifier
	now      func() time.Time
}

// New creates a ledger over s. notifier may be nil.
func New(s store.Store, notifier Notifier) *Ledger {
	return &Ledger{
		store:    s,
		notifier: notifier,
		now:      time.Now,
	}
}

// WorkSessionInput carries the caller-supplied fields of a work session.
// Hours worked is derived and cannot be supplied.
type WorkSessionInput struct {
	ClientID     int64
	MachineID    int64
	Location     string
	StartDate    string
	EndDate      string
	InitialMeter float64
	FinalMeter   float64
}

// WorkSession is a work record joined with the names shown in listings.
// Names are empty when the referenced row no longer exists.
type WorkSession struct {
	model.WorkRecord
	ClientName   string `json:"client_name"`
	MachineBrand string `json:"machine_brand"`
	MachineModel string `json:"machine_model"`
}

// Summary holds the dashboard counters.
type Summary struct {
	Clients    int     `json:"clients"`
	Machines   int     `json:"machines"`
	Sessions   int     `json:"sessions"`
	TotalHours float64 `json:"total_hours"`
}

// RegisterClient validates and stores a new client.
func (l *Ledger) RegisterClient(ctx context.Context, name, taxID, address string) (int64, error) {
	for _, f := range [][2]string{{"name", name}, {"tax id", taxID}, {"address", address}} {
		if err := requireText(f[0], f[1]); err != nil {
			return 0, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := &model.Client{Name: name, TaxID: taxID, Address: address}
	if err := l.store.CreateClient(ctx, c); err != nil {
		return 0, storeErr("could not register client", err)
	}
	log.Printf("Registered client %d (%s)", c.ID, c.Name)
	return c.ID, nil
}

// RegisterMachine validates and stores a new machine. The year must lie in
// [1900, current year + 1].
func (l *Ledger) RegisterMachine(ctx context.Context, brand, mdl string, year int) (int64, error) {
	if err := requireText("brand", brand); err != nil {
		return 0, err
	}
	if err := requireText("model", mdl); err != nil {
		return 0, err
	}
	if err := validateYear(year, l.now().Year()); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	m := &model.Machine{Brand: brand, Model: mdl, Year: year}
	if err := l.store.CreateMachine(ctx, m); err != nil {
		return 0, storeErr("could not register machine", err)
	}
	log.Printf("Registered machine %d (%s %s, %d)", m.ID, m.Brand, m.Model, m.Year)
	return m.ID, nil
}

// RegisterWorkSession validates a session and inserts exactly one work record,
// or nothing. Checks run in a fixed order and the first failure is returned:
// meters, dates, location, client, machine. The order of start and end date
// is deliberately not checked.
func (l *Ledger) RegisterWorkSession(ctx context.Context, in WorkSessionInput) (int64, error) {
	var crossing *alarm.Crossing

	id, err := func() (int64, error) {
		l.mu.Lock()
		defer l.mu.Unlock()

		if err := validateMeters(in.InitialMeter, in.FinalMeter); err != nil {
			return 0, err
		}
		if err := validateDates(in.StartDate, in.EndDate); err != nil {
			return 0, err
		}
		if err := requireText("location", in.Location); err != nil {
			return 0, err
		}
		if _, err := l.store.GetClient(ctx, in.ClientID); err != nil {
			return 0, lookupErr(err, "client", in.ClientID)
		}
		machine, err := l.store.GetMachine(ctx, in.MachineID)
		if err != nil {
			return 0, lookupErr(err, "machine", in.MachineID)
		}

		rec := &model.WorkRecord{
			ClientID:     in.ClientID,
			MachineID:    in.MachineID,
			Location:     in.Location,
			StartDate:    in.StartDate,
			EndDate:      in.EndDate,
			InitialMeter: in.InitialMeter,
			FinalMeter:   in.FinalMeter,
			HoursWorked:  in.FinalMeter - in.InitialMeter,
		}

		var before float64
		if l.notifier != nil {
			before, _, err = l.store.SumHoursByBrandModel(ctx, machine.Brand, machine.Model)
			if err != nil {
				return 0, storeErr("could not read accumulated hours", err)
			}
		}

		if err := l.store.CreateWorkRecord(ctx, rec); err != nil {
			return 0, storeErr("could not register work session", err)
		}
		log.Printf("Registered work session %d: machine %d, %.2f hours", rec.ID, rec.MachineID, rec.HoursWorked)

		if l.notifier != nil {
			after := before + rec.HoursWorked
			if crossed := alarm.Crossed(before, after); len(crossed) > 0 {
				crossing = &alarm.Crossing{
					Brand:      machine.Brand,
					Model:      machine.Model,
					RecordID:   rec.ID,
					Before:     before,
					After:      after,
					Thresholds: crossed,
				}
			}
		}
		return rec.ID, nil
	}()
	if err != nil {
		return 0, err
	}

	// Notifiers run outside the lock.
	if crossing != nil {
		l.notifier.Dispatch(*crossing)
	}
	return id, nil
}

// ListClients returns all clients ordered by id.
func (l *Ledger) ListClients(ctx context.Context) ([]model.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	clients, err := l.store.ListClients(ctx)
	if err != nil {
		return nil, storeErr("could not list clients", err)
	}
	return clients, nil
}

// ListMachines returns all machines ordered by id.
func (l *Ledger) ListMachines(ctx context.Context) ([]model.Machine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	machines, err := l.store.ListMachines(ctx)
	if err != nil {
		return nil, storeErr("could not list machines", err)
	}
	return machines, nil
}

// ListWorkSessions returns all sessions, most recently created first.
func (l *Ledger) ListWorkSessions(ctx context.Context) ([]WorkSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.store.ListWorkRecords(ctx)
	if err != nil {
		return nil, storeErr("could not list work sessions", err)
	}
	clients, err := l.store.ListClients(ctx)
	if err != nil {
		return nil, storeErr("could not list clients", err)
	}
	machines, err := l.store.ListMachines(ctx)
	if err != nil {
		return nil, storeErr("could not list machines", err)
	}

	clientMap := make(map[int64]model.Client, len(clients))
	for _, c := range clients {
		clientMap[c.ID] = c
	}
	machineMap := make(map[int64]model.Machine, len(machines))
	for _, m := range machines {
		machineMap[m.ID] = m
	}

	sessions := make([]WorkSession, 0, len(records))
	for _, r := range records {
		c := clientMap[r.ClientID] // zero value if dangling
		m := machineMap[r.MachineID]
		sessions = append(sessions, WorkSession{
			WorkRecord:   r,
			ClientName:   c.Name,
			MachineBrand: m.Brand,
			MachineModel: m.Model,
		})
	}
	return sessions, nil
}

// DeleteClient removes a client. Absence is a no-op; a client still referenced
// by work sessions cannot be deleted.
func (l *Ledger) DeleteClient(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.store.CountWorkRecordsByClient(ctx, id)
	if err != nil {
		return storeErr("could not check client references", err)
	}
	if n > 0 {
		return referencef("client %d is referenced by %d work session(s)", id, n)
	}
	if err := l.store.DeleteClient(ctx, id); err != nil {
		return storeErr("could not delete client", err)
	}
	log.Printf("Deleted client %d", id)
	return nil
}

// DeleteMachine removes a machine. Absence is a no-op; a machine still
// referenced by work sessions cannot be deleted.
func (l *Ledger) DeleteMachine(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.store.CountWorkRecordsByMachine(ctx, id)
	if err != nil {
		return storeErr("could not check machine references", err)
	}
	if n > 0 {
		return referencef("machine %d is referenced by %d work session(s)", id, n)
	}
	if err := l.store.DeleteMachine(ctx, id); err != nil {
		return storeErr("could not delete machine", err)
	}
	log.Printf("Deleted machine %d", id)
	return nil
}

// DeleteWorkSession removes a work session. Absence is a no-op.
func (l *Ledger) DeleteWorkSession(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.DeleteWorkRecord(ctx, id); err != nil {
		return storeErr("could not delete work session", err)
	}
	log.Printf("Deleted work session %d", id)
	return nil
}

// ComputeAlarmStatus classifies the accumulated hours of a brand+model bucket.
// An empty bucket totals zero.
func (l *Ledger) ComputeAlarmStatus(ctx context.Context, brand, mdl string) (alarm.Report, error) {
	if err := requireText("brand", brand); err != nil {
		return alarm.Report{}, err
	}
	if err := requireText("model", mdl); err != nil {
		return alarm.Report{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	r, err := alarm.Compute(ctx, l.store, brand, mdl, 0)
	if err != nil {
		return alarm.Report{}, storeErr("could not compute alarm status", err)
	}
	return r, nil
}

// AlarmOverview classifies every brand+model bucket that has work sessions,
// ordered by brand then model.
func (l *Ledger) AlarmOverview(ctx context.Context) ([]alarm.Report, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	buckets, err := l.store.HoursByBucket(ctx)
	if err != nil {
		return nil, storeErr("could not aggregate hours", err)
	}
	reports := make([]alarm.Report, 0, len(buckets))
	for _, b := range buckets {
		reports = append(reports, alarm.Classify(b.Brand, b.Model, b.TotalHours))
	}
	return reports, nil
}

// BuildReport assembles the maintenance report for one work session.
func (l *Ledger) BuildReport(ctx context.Context, recordID int64) (*report.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.store.GetWorkRecord(ctx, recordID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("work session %d not found", recordID)
	}
	if err != nil {
		return nil, storeErr("could not load work session", err)
	}

	client, err := l.store.GetClient(ctx, rec.ClientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("client %d of work session %d not found", rec.ClientID, recordID)
	}
	if err != nil {
		return nil, storeErr("could not load client", err)
	}

	machine, err := l.store.GetMachine(ctx, rec.MachineID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("machine %d of work session %d not found", rec.MachineID, recordID)
	}
	if err != nil {
		return nil, storeErr("could not load machine", err)
	}

	alarms, err := alarm.Compute(ctx, l.store, machine.Brand, machine.Model, rec.HoursWorked)
	if err != nil {
		return nil, storeErr("could not compute alarm status", err)
	}

	return report.Assemble(*rec, *client, *machine, alarms, l.now()), nil
}

// Summary returns entity counts and the total hours across all sessions.
func (l *Ledger) Summary(ctx context.Context) (Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	clients, err := l.store.ListClients(ctx)
	if err != nil {
		return Summary{}, storeErr("could not list clients", err)
	}
	machines, err := l.store.ListMachines(ctx)
	if err != nil {
		return Summary{}, storeErr("could not list machines", err)
	}
	records, err := l.store.ListWorkRecords(ctx)
	if err != nil {
		return Summary{}, storeErr("could not list work sessions", err)
	}

	s := Summary{Clients: len(clients), Machines: len(machines), Sessions: len(records)}
	for _, r := range records {
		s.TotalHours += r.HoursWorked
	}
	return s, nil
}

func lookupErr(err error, entity string, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return referencef("%s %d not found", entity, id)
	}
	return storeErr("could not load "+entity, err)
}

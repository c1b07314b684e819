package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hourmeter-backend/internal/model"
)

// ErrNotFound is returned when a row looked up by its key does not exist.
var ErrNotFound = errors.New("record not found")

// BucketHours is the accumulated usage of one brand+model bucket.
type BucketHours struct {
	Brand      string
	Model      string
	TotalHours float64
	Sessions   int64
}

// Store defines the interface for all database operations.
type Store interface {
	CreateClient(ctx context.Context, c *model.Client) error
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	ListClients(ctx context.Context) ([]model.Client, error)
	DeleteClient(ctx context.Context, id int64) error

	CreateMachine(ctx context.Context, m *model.Machine) error
	GetMachine(ctx context.Context, id int64) (*model.Machine, error)
	ListMachines(ctx context.Context) ([]model.Machine, error)
	DeleteMachine(ctx context.Context, id int64) error

	CreateWorkRecord(ctx context.Context, r *model.WorkRecord) error
	GetWorkRecord(ctx context.Context, id int64) (*model.WorkRecord, error)
	ListWorkRecords(ctx context.Context) ([]model.WorkRecord, error)
	DeleteWorkRecord(ctx context.Context, id int64) error
	CountWorkRecordsByClient(ctx context.Context, clientID int64) (int64, error)
	CountWorkRecordsByMachine(ctx context.Context, machineID int64) (int64, error)

	// SumHoursByBrandModel sums hours_worked over every work record whose
	// machine has exactly this brand and model text. ok is false when no
	// such record exists.
	SumHoursByBrandModel(ctx context.Context, brand, model string) (sum float64, ok bool, err error)
	// HoursByBucket returns one row per brand+model that has work records.
	HoursByBucket(ctx context.Context) ([]BucketHours, error)

	SaveSubscription(ctx context.Context, sub *model.PushSubscription, machineIDs []int64) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForBrandModel(ctx context.Context, brand, model string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// --- Clients ---

func (s *gormStore) CreateClient(ctx context.Context, c *model.Client) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

func (s *gormStore) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	var c model.Client
	if err := first(s.db.WithContext(ctx), &c, id); err != nil {
		return nil, fmt.Errorf("client %d: %w", id, err)
	}
	return &c, nil
}

func (s *gormStore) ListClients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := s.db.WithContext(ctx).Order("id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *gormStore) DeleteClient(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&model.Client{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete client %d: %w", id, err)
	}
	return nil
}

// --- Machines ---

func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to insert machine: %w", err)
	}
	return nil
}

func (s *gormStore) GetMachine(ctx context.Context, id int64) (*model.Machine, error) {
	var m model.Machine
	if err := first(s.db.WithContext(ctx), &m, id); err != nil {
		return nil, fmt.Errorf("machine %d: %w", id, err)
	}
	return &m, nil
}

func (s *gormStore) ListMachines(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Order("id").Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}

// DeleteMachine removes the machine and its subscription links in one transaction.
func (s *gormStore) DeleteMachine(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM subscription_machine_mapping WHERE machine_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink subscriptions for machine %d: %w", id, err)
		}
		if err := tx.Delete(&model.Machine{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete machine %d: %w", id, err)
		}
		return nil
	})
}

// --- Work records ---

func (s *gormStore) CreateWorkRecord(ctx context.Context, r *model.WorkRecord) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to insert work record: %w", err)
	}
	return nil
}

func (s *gormStore) GetWorkRecord(ctx context.Context, id int64) (*model.WorkRecord, error) {
	var r model.WorkRecord
	if err := first(s.db.WithContext(ctx), &r, id); err != nil {
		return nil, fmt.Errorf("work record %d: %w", id, err)
	}
	return &r, nil
}

// ListWorkRecords returns every record, most recently created first. Ids are
// assigned in insertion order, so they sort by creation without depending on
// how the driver stores timestamps.
func (s *gormStore) ListWorkRecords(ctx context.Context) ([]model.WorkRecord, error) {
	var records []model.WorkRecord
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list work records: %w", err)
	}
	return records, nil
}

func (s *gormStore) DeleteWorkRecord(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&model.WorkRecord{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete work record %d: %w", id, err)
	}
	return nil
}

func (s *gormStore) CountWorkRecordsByClient(ctx context.Context, clientID int64) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.WorkRecord{}).Where("client_id = ?", clientID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count work records for client %d: %w", clientID, err)
	}
	return n, nil
}

func (s *gormStore) CountWorkRecordsByMachine(ctx context.Context, machineID int64) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.WorkRecord{}).Where("machine_id = ?", machineID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count work records for machine %d: %w", machineID, err)
	}
	return n, nil
}

// SumHoursByBrandModel filters on the machine's brand and model columns, never
// on machine_id: identical brand+model text on distinct machines shares one bucket.
func (s *gormStore) SumHoursByBrandModel(ctx context.Context, brand, mdl string) (float64, bool, error) {
	var sum sql.NullFloat64
	row := s.db.WithContext(ctx).
		Model(&model.WorkRecord{}).
		Select("SUM(work_records.hours_worked)").
		Joins("JOIN machines ON machines.id = work_records.machine_id").
		Where("machines.brand = ? AND machines.model = ?", brand, mdl).
		Row()
	if err := row.Scan(&sum); err != nil {
		return 0, false, fmt.Errorf("failed to sum hours for %s %s: %w", brand, mdl, err)
	}
	return sum.Float64, sum.Valid, nil
}

func (s *gormStore) HoursByBucket(ctx context.Context) ([]BucketHours, error) {
	var rows []BucketHours
	err := s.db.WithContext(ctx).
		Model(&model.WorkRecord{}).
		Select("machines.brand AS brand, machines.model AS model, SUM(work_records.hours_worked) AS total_hours, COUNT(*) AS sessions").
		Joins("JOIN machines ON machines.id = work_records.machine_id").
		Group("machines.brand, machines.model").
		Order("machines.brand, machines.model").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate hours by bucket: %w", err)
	}
	return rows, nil
}

// --- Push subscriptions ---

// SaveSubscription creates or replaces a subscription and the machines it follows.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription, machineIDs []int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		machines := []model.Machine{}
		if len(machineIDs) > 0 {
			if err := tx.Find(&machines, machineIDs).Error; err != nil {
				return fmt.Errorf("failed to load subscribed machines: %w", err)
			}
		}

		if err := tx.Model(sub).Association("Machines").Replace(&machines); err != nil {
			return fmt.Errorf("failed to replace subscribed machines: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Machines").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM subscription_machine_mapping WHERE push_subscription_endpoint = ?", endpoint).Error; err != nil {
			return fmt.Errorf("failed to unlink subscription: %w", err)
		}
		if err := tx.Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
			return fmt.Errorf("failed to delete subscription: %w", err)
		}
		return nil
	})
}

// SubscriptionsForBrandModel returns subscriptions following any machine in the bucket.
func (s *gormStore) SubscriptionsForBrandModel(ctx context.Context, brand, mdl string) ([]model.PushSubscription, error) {
	var subscriptions []model.PushSubscription
	err := s.db.WithContext(ctx).
		Distinct("push_subscriptions.*").
		Joins("JOIN subscription_machine_mapping smm ON smm.push_subscription_endpoint = push_subscriptions.endpoint").
		Joins("JOIN machines m ON m.id = smm.machine_id").
		Where("m.brand = ? AND m.model = ?", brand, mdl).
		Find(&subscriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for %s %s: %w", brand, mdl, err)
	}
	return subscriptions, nil
}

func first(db *gorm.DB, dest any, id int64) error {
	err := db.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

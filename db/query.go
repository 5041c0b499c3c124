package db

import (
	"errors"
	"time"

	"store-monitor/model"

	"gorm.io/gorm"
)

// Store exposes the read contracts the report engine consumes. It wraps a
// gorm handle so tests can run it against an in-memory database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ObservationsBetween returns a store's observations with UTC timestamp in
// [from, to], ordered ascending.
func (s *Store) ObservationsBetween(storeID string, from, to time.Time) ([]model.StoreStatus, error) {
	var rows []model.StoreStatus
	err := s.db.
		Where("store_id = ? AND timestamp_utc >= ? AND timestamp_utc <= ?", storeID, from, to).
		Order("timestamp_utc ASC").
		Find(&rows).Error
	return rows, err
}

// PreviousObservation returns the most recent observation strictly before
// the given UTC instant, or nil when none exists. This is a point query
// against full history, not limited to any report window.
func (s *Store) PreviousObservation(storeID string, before time.Time) (*model.StoreStatus, error) {
	var row model.StoreStatus
	err := s.db.
		Where("store_id = ? AND timestamp_utc < ?", storeID, before).
		Order("timestamp_utc DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) BusinessHoursFor(storeID string) ([]model.StoreBusinessHours, error) {
	var rows []model.StoreBusinessHours
	err := s.db.Where("store_id = ?", storeID).Find(&rows).Error
	return rows, err
}

// TimezoneFor returns the stored timezone string, or "" when the store has
// no timezone row.
func (s *Store) TimezoneFor(storeID string) (string, error) {
	var row model.StoreTimezone
	err := s.db.Where("store_id = ?", storeID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.TimezoneStr, nil
}

// DistinctStoreIDs lists every store seen in observation history.
func (s *Store) DistinctStoreIDs() ([]string, error) {
	var ids []string
	err := s.db.Model(&model.StoreStatus{}).
		Distinct("store_id").
		Order("store_id ASC").
		Pluck("store_id", &ids).Error
	return ids, err
}

// LatestObservationTime returns the newest observation timestamp across all
// stores; the zero time when the table is empty.
func (s *Store) LatestObservationTime() (time.Time, error) {
	var row model.StoreStatus
	err := s.db.Order("timestamp_utc DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return row.TimestampUTC, nil
}

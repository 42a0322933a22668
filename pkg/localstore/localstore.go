package localstore

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Store is a synchronous string-keyed slot facility. One slot holds one
// JSON-serialized payload; writers overwrite the prior value wholesale.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Slot is the persisted key-value row.
type Slot struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     string
	UpdatedAt time.Time
}

// TableName keeps the table name stable regardless of gorm pluralization.
func (Slot) TableName() string { return "local_slots" }

// SQLiteStore keeps slots in a local SQLite file so carts and wishlists
// survive process restarts.
type SQLiteStore struct {
	conn *gorm.DB
}

// OpenSQLite opens (and migrates) the slot database at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("localstore path is required")
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening localstore: %w", err)
	}
	if err := conn.AutoMigrate(&Slot{}); err != nil {
		return nil, fmt.Errorf("migrating localstore: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var slot Slot
	err := s.conn.First(&slot, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return slot.Value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	slot := Slot{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
}

func (s *SQLiteStore) Delete(key string) error {
	return s.conn.Delete(&Slot{}, "key = ?", key).Error
}

// Close releases the underlying SQLite handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MemoryStore is the in-process Store used by tests and ephemeral sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.slots[key]
	return value, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storageKey is the single fixed key the token record lives under.
const storageKey = "token"

type record struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null"`
}

func (record) TableName() string { return "local_storage" }

// Store persists the one session record in a local sqlite file. It is the
// only cross-component shared state in the storefront; everything else is
// refetched from the API on demand.
type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate session store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save replaces the stored token record.
func (s *Store) Save(sess Session) error {
	value, err := sess.Encode()
	if err != nil {
		return err
	}
	rec := record{Key: storageKey, Value: value, UpdatedAt: time.Now().Unix()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

// Load reads and decodes the stored record. ErrNoSession means the user is
// logged out; legacy bare-string blobs are normalized by Decode.
func (s *Store) Load() (Session, error) {
	var rec record
	if err := s.db.Where("key = ?", storageKey).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	return Decode(rec.Value)
}

// Clear destroys the session record (logout, or the 403 policy).
func (s *Store) Clear() error {
	return s.db.Where("key = ?", storageKey).Delete(&record{}).Error
}

package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// entry is one row of the local key-value table
type entry struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (entry) TableName() string {
	return "local_storage"
}

// SQLite stores tokens in a local key-value table, like browser local storage
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database file at path
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite token store needs a database path")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create token store directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	// Single writer keeps SQLite from returning SQLITE_BUSY under concurrent saves
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&entry{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate token store: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(key string) (string, error) {
	var e entry
	if err := s.db.Where(map[string]interface{}{"key": key}).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return e.Value, nil
}

func (s *SQLite) Save(key, token string) error {
	e := entry{Key: key, Value: token}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *SQLite) Delete(key string) error {
	if err := s.db.Where(map[string]interface{}{"key": key}).Delete(&entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// Close releases the database handle
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

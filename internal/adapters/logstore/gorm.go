package logstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

// kvRecord is one persisted key.
type kvRecord struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (kvRecord) TableName() string { return "hobby_log_kv" }

// GormKV stores values in a SQL table through gorm.
type GormKV struct {
	db    *gorm.DB
	owned bool
}

// NewGormKV migrates the table on db. Close leaves db open.
func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", kvRecord{}.TableName(), err)
	}
	return &GormKV{db: db}, nil
}

// OpenSQLite opens a SQLite database file.
func OpenSQLite(path string) (*GormKV, error) {
	return openGorm(sqlite.Open(path), "sqlite")
}

// OpenPostgres connects to PostgreSQL.
func OpenPostgres(dsn string) (*GormKV, error) {
	return openGorm(postgres.Open(dsn), "postgres")
}

func openGorm(dialector gorm.Dialector, name string) (*GormKV, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenBackend, name, err)
	}
	kv, err := NewGormKV(db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenBackend, name, err)
	}
	kv.owned = true
	return kv, nil
}

func (g *GormKV) Get(ctx context.Context, key string) ([]byte, error) {
	var rec kvRecord
	err := g.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return rec.Value, nil
}

func (g *GormKV) Set(ctx context.Context, key string, value []byte) error {
	rec := kvRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (g *GormKV) Delete(ctx context.Context, key string) error {
	if err := g.db.WithContext(ctx).Delete(&kvRecord{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (g *GormKV) Close() error {
	if !g.owned {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Package repository holds the storage and messaging adapters.
package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
)

// CandleModel is one cached OHLCV row.
type CandleModel struct {
	ID        uint    `gorm:"primaryKey"`
	Provider  string  `gorm:"size:32;not null;uniqueIndex:ohlcv_key,priority:1"`
	Symbol    string  `gorm:"size:64;not null;uniqueIndex:ohlcv_key,priority:2"`
	Timeframe string  `gorm:"size:8;not null;uniqueIndex:ohlcv_key,priority:3"`
	TS        int64   `gorm:"column:ts;not null;uniqueIndex:ohlcv_key,priority:4"`
	Open      float64 `gorm:"not null"`
	High      float64 `gorm:"not null"`
	Low       float64 `gorm:"not null"`
	Close     float64 `gorm:"not null"`
	Volume    float64 `gorm:"not null;default:0"`
	FetchedAt int64   `gorm:"not null"`
}

func (CandleModel) TableName() string {
	return "ohlcv_cache"
}

// GormCandleStore implements CandleStore on SQLite through gorm.
type GormCandleStore struct {
	db *gorm.DB
}

// OpenSQLite opens the database at path and migrates the cache table.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&CandleModel{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func NewGormCandleStore(db *gorm.DB) *GormCandleStore {
	return &GormCandleStore{db: db}
}

func (s *GormCandleStore) Load(ctx context.Context, key domrepo.SeriesKey, limit int) ([]models.Candle, time.Time, error) {
	var rows []CandleModel
	err := s.db.WithContext(ctx).
		Where("provider = ? AND symbol = ? AND timeframe = ?", key.Provider, key.Symbol, string(key.Timeframe)).
		Order("ts DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load candles: %w", err)
	}

	out := make([]models.Candle, len(rows))
	var fetchedAt int64
	for i, r := range rows {
		out[len(rows)-1-i] = models.Candle{
			Timestamp: time.UnixMilli(r.TS).UTC(),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		}
		fetchedAt = max(fetchedAt, r.FetchedAt)
	}
	if len(rows) == 0 {
		return out, time.Time{}, nil
	}
	return out, time.UnixMilli(fetchedAt).UTC(), nil
}

// Save deletes the stored series and inserts candles in one transaction.
func (s *GormCandleStore) Save(ctx context.Context, key domrepo.SeriesKey, candles []models.Candle) error {
	now := time.Now().UnixMilli()
	ms := make([]CandleModel, 0, len(candles))
	for _, c := range candles {
		ms = append(ms, CandleModel{
			Provider:  key.Provider,
			Symbol:    key.Symbol,
			Timeframe: string(key.Timeframe),
			TS:        c.Timestamp.UnixMilli(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
			FetchedAt: now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("provider = ? AND symbol = ? AND timeframe = ?", key.Provider, key.Symbol, string(key.Timeframe)).
			Delete(&CandleModel{}).Error
		if err != nil {
			return fmt.Errorf("delete candles: %w", err)
		}
		if len(ms) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&ms, 500).Error; err != nil {
			return fmt.Errorf("insert candles: %w", err)
		}
		return nil
	})
}

func (s *GormCandleStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ domrepo.CandleStore = (*GormCandleStore)(nil)

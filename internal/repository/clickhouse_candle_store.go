package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	pkgch "Assemblief/pkg/clickhouse"
	applogger "Assemblief/pkg/logger"
)

// CHCandleStore implements CandleStore on a ClickHouse table.
type CHCandleStore struct {
	db     *sql.DB
	closer io.Closer
	table  string
	l      *applogger.Logger
}

// NewCHCandleStore takes ownership of ch; Close releases its pool.
func NewCHCandleStore(ch *pkgch.Client, database string, l *applogger.Logger) *CHCandleStore {
	return newCHCandleStore(ch.DB(), ch, database, l)
}

func newCHCandleStore(db *sql.DB, closer io.Closer, database string, l *applogger.Logger) *CHCandleStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHCandleStore{db: db, closer: closer, table: database + ".ohlcv_cache", l: l}
}

func (s *CHCandleStore) Load(ctx context.Context, key domrepo.SeriesKey, limit int) ([]models.Candle, time.Time, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT ts, open, high, low, close, volume, fetched_at
        FROM %s FINAL
        WHERE provider = ? AND symbol = ? AND timeframe = ?
        ORDER BY ts DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, key.Provider, key.Symbol, string(key.Timeframe), limit)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load candles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, limit)
	var fetchedAt time.Time
	for rows.Next() {
		var (
			c  models.Candle
			fa time.Time
		)
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &fa); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan candle: %w", err)
		}
		c.Timestamp = c.Timestamp.UTC()
		if fa.After(fetchedAt) {
			fetchedAt = fa
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	s.l.Debug("clickhouse load candles ok",
		applogger.String("symbol", key.Symbol),
		applogger.String("tf", string(key.Timeframe)),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, fetchedAt, nil
}

// Save replaces the series with a lightweight delete and one batch insert.
func (s *CHCandleStore) Save(ctx context.Context, key domrepo.SeriesKey, candles []models.Candle) error {
	del := fmt.Sprintf(`DELETE FROM %s WHERE provider = ? AND symbol = ? AND timeframe = ?`, s.table)
	if _, err := s.db.ExecContext(ctx, del, key.Provider, key.Symbol, string(key.Timeframe)); err != nil {
		return fmt.Errorf("delete candles: %w", err)
	}
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (provider, symbol, timeframe, ts, open, high, low, close, volume, fetched_at)`, s.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, key.Provider, key.Symbol, string(key.Timeframe),
			c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append candle: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.l.Debug("clickhouse save candles ok",
		applogger.String("symbol", key.Symbol),
		applogger.String("tf", string(key.Timeframe)),
		applogger.Int("rows", len(candles)),
	)
	return nil
}

func (s *CHCandleStore) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("close clickhouse: %w", err)
	}
	return nil
}

var _ domrepo.CandleStore = (*CHCandleStore)(nil)

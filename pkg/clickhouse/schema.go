package clickhouse

import "fmt"

// CandleSchema returns the statements creating the candle cache table in db.
func CandleSchema(db string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.ohlcv_cache (
            provider   LowCardinality(String),
            symbol     LowCardinality(String),
            timeframe  LowCardinality(String),
            ts         DateTime64(3, 'UTC'),
            open       Float64,
            high       Float64,
            low        Float64,
            close      Float64,
            volume     Float64,
            fetched_at DateTime64(3, 'UTC')
        ) ENGINE = ReplacingMergeTree(fetched_at)
        ORDER BY (provider, symbol, timeframe, ts)`, db),
	}
}

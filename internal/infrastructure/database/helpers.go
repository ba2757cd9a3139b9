package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Close đóng tất cả connections trong pool. Gọi nhiều lần vẫn an toàn.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	log.Info().Msg("[DATABASE] Closing connection pool...")
	db.Pool.Close()
	db.Pool = nil
	return nil
}

// PoolStats - snapshot cho /health
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

func (db *PostgresDB) Stats() *PoolStats {
	if db.Pool == nil {
		return nil
	}
	s := db.Pool.Stat()
	return &PoolStats{
		TotalConns:    s.TotalConns(),
		IdleConns:     s.IdleConns(),
		AcquiredConns: s.AcquiredConns(),
		MaxConns:      s.MaxConns(),
	}
}

// MonitorPoolHealth logs a warning when the pool is close to exhaustion
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := db.Stats()
			if stats == nil || stats.MaxConns == 0 {
				continue
			}
			if float64(stats.AcquiredConns)/float64(stats.MaxConns) >= 0.8 {
				log.Warn().
					Int32("acquired", stats.AcquiredConns).
					Int32("max", stats.MaxConns).
					Msg("[DATABASE] Pool utilization high")
			}
		case <-ctx.Done():
			return
		}
	}
}

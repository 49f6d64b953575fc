package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bxcodec/dbresolver/v2"
	_ "github.com/lib/pq"
)

type PoolConfig struct {
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetimeS int
	ConnMaxIdleTimeS int
}

func NewPostgresDB(ctx context.Context, databaseURL string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresDB: open: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeS) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeS) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("NewPostgresDB: ping: %w", err)
	}

	return db, nil
}

// NewReader routes read-only queries across the replicas, falling back to
// the primary when none are configured.
func NewReader(primary *sql.DB, replicas ...*sql.DB) dbresolver.DB {
	if len(replicas) == 0 {
		replicas = []*sql.DB{primary}
	}
	return dbresolver.New(
		dbresolver.WithPrimaryDBs(primary),
		dbresolver.WithReplicaDBs(replicas...),
		dbresolver.WithLoadBalancer(dbresolver.RoundRobinLB),
	)
}

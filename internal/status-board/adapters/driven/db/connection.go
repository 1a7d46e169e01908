package db

import (
	"context"
	"fmt"
	"time"

	"iitk-connect/internal/config"
	"iitk-connect/internal/mylogger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DataBase struct {
	cfg   *config.DBconfig
	mylog mylogger.Logger
	pool  *pgxpool.Pool
}

// ConnectDB opens the pool, retrying with a linear backoff until MaxRetries.
func ConnectDB(ctx context.Context, dbCfg *config.DBconfig, mylog mylogger.Logger) (*DataBase, error) {
	d := &DataBase{
		cfg:   dbCfg,
		mylog: mylog.Action("db_connect"),
	}

	if err := d.connect(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *DataBase) GetPool() *pgxpool.Pool {
	return d.pool
}

func (d *DataBase) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// IsAlive pings the DB to verify it's responsive
func (d *DataBase) IsAlive(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (d *DataBase) connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(d.cfg.DSN())
	if err != nil {
		return fmt.Errorf("parse database config: %w", err)
	}
	if d.cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(d.cfg.MaxConns)
	}

	attempts := max(d.cfg.MaxRetries, 1)
	var lastErr error
	for i := 0; i < attempts; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				d.pool = pool
				d.mylog.Info("Successfully connected to the database")
				return nil
			}
			pool.Close()
		}

		lastErr = err
		d.mylog.Error(fmt.Sprintf("DB connection attempt %d failed", i+1), err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("connect to database: %w", ctx.Err())
		case <-time.After(time.Second * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to connect to the database after %d attempts: %w", attempts, lastErr)
}

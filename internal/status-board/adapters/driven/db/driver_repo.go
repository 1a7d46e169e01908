package db

import (
	"context"
	"errors"
	"fmt"

	"iitk-connect/internal/status-board/core/domain/model"
	"iitk-connect/internal/status-board/core/myerrors"
	"iitk-connect/internal/status-board/core/ports/driven"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const driverColumns = `
	id,
	name,
	phone,
	password_hash,
	vehicle_type,
	vehicle_number,
	status,
	location,
	last_updated,
	created_at`

type DriverRepository struct {
	db *DataBase
}

var _ driven.IDriverRepository = (*DriverRepository)(nil)

func NewDriverRepository(db *DataBase) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) Create(ctx context.Context, d model.Driver) (model.Driver, error) {
	q := `
		INSERT INTO drivers (id, name, phone, password_hash, vehicle_type, vehicle_number, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING` + driverColumns

	row := r.db.pool.QueryRow(ctx, q,
		d.ID,
		d.Name,
		d.Phone,
		d.PasswordHash,
		d.VehicleType,
		d.VehicleNumber,
		d.Status,
	)
	created, err := scanDriver(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Driver{}, myerrors.ErrPhoneRegistered
		}
		return model.Driver{}, fmt.Errorf("%w: insert driver: %v", myerrors.ErrStore, err)
	}
	return created, nil
}

func (r *DriverRepository) GetByPhone(ctx context.Context, phone string) (model.Driver, error) {
	q := `SELECT` + driverColumns + `
		FROM drivers
		WHERE phone = $1`

	d, err := scanDriver(r.db.pool.QueryRow(ctx, q, phone))
	if err != nil {
		return model.Driver{}, notFoundOrStore("get driver", err)
	}
	return d, nil
}

func (r *DriverRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Driver, error) {
	q := `SELECT` + driverColumns + `
		FROM drivers
		WHERE status = $1
		ORDER BY last_updated DESC, phone`

	rows, err := r.db.pool.Query(ctx, q, status)
	if err != nil {
		return nil, fmt.Errorf("%w: list drivers: %v", myerrors.ErrStore, err)
	}
	defer rows.Close()

	drivers := []model.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan driver: %v", myerrors.ErrStore, err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list drivers: %v", myerrors.ErrStore, err)
	}
	return drivers, nil
}

func (r *DriverRepository) UpdateStatus(ctx context.Context, phone string, change model.StatusChange) (model.Driver, error) {
	q := `
		UPDATE drivers
		SET status = $2,
			location = $3,
			last_updated = $4
		WHERE phone = $1
		RETURNING` + driverColumns

	d, err := scanDriver(r.db.pool.QueryRow(ctx, q, phone, change.Status, change.Location, change.LastUpdated))
	if err != nil {
		return model.Driver{}, notFoundOrStore("update status", err)
	}
	return d, nil
}

func (r *DriverRepository) UpdateProfile(ctx context.Context, phone string, change model.ProfileChange) (model.Driver, error) {
	q := `
		UPDATE drivers
		SET name = $2,
			vehicle_type = $3,
			vehicle_number = $4
		WHERE phone = $1
		RETURNING` + driverColumns

	d, err := scanDriver(r.db.pool.QueryRow(ctx, q, phone, change.Name, change.VehicleType, change.VehicleNumber))
	if err != nil {
		return model.Driver{}, notFoundOrStore("update profile", err)
	}
	return d, nil
}

func (r *DriverRepository) IsAlive(ctx context.Context) error {
	if err := r.db.IsAlive(ctx); err != nil {
		return fmt.Errorf("%w: %v", myerrors.ErrStore, err)
	}
	return nil
}

func scanDriver(row pgx.Row) (model.Driver, error) {
	var d model.Driver
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Phone,
		&d.PasswordHash,
		&d.VehicleType,
		&d.VehicleNumber,
		&d.Status,
		&d.Location,
		&d.LastUpdated,
		&d.CreatedAt,
	)
	if err != nil {
		return model.Driver{}, err
	}
	d.LastUpdated = d.LastUpdated.UTC()
	d.CreatedAt = d.CreatedAt.UTC()
	return d, nil
}

func notFoundOrStore(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return myerrors.ErrDriverNotFound
	}
	return fmt.Errorf("%w: %s: %v", myerrors.ErrStore, op, err)
}

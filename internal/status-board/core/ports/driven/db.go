package driven

import (
	"context"

	"iitk-connect/internal/status-board/core/domain/model"
)

// IDriverRepository is the keyed-by-phone driver record store.
// Implementations return myerrors.ErrDriverNotFound for unknown phones,
// myerrors.ErrPhoneRegistered on duplicate inserts and wrap anything else
// with myerrors.ErrStore.
type IDriverRepository interface {
	Create(ctx context.Context, driver model.Driver) (model.Driver, error)
	GetByPhone(ctx context.Context, phone string) (model.Driver, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.Driver, error)
	UpdateStatus(ctx context.Context, phone string, change model.StatusChange) (model.Driver, error)
	UpdateProfile(ctx context.Context, phone string, change model.ProfileChange) (model.Driver, error)
	IsAlive(ctx context.Context) error
}

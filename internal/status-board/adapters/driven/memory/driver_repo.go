package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"iitk-connect/internal/status-board/core/domain/model"
	"iitk-connect/internal/status-board/core/myerrors"
)

// DriverRepository keeps driver records in process memory, keyed by phone.
// Used by STORE_DRIVER=memory and as the store double in tests.
type DriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]model.Driver
	now     func() time.Time
}

func NewDriverRepository() *DriverRepository {
	return &DriverRepository{
		drivers: make(map[string]model.Driver),
		now:     time.Now,
	}
}

func (r *DriverRepository) Create(ctx context.Context, driver model.Driver) (model.Driver, error) {
	if err := ctx.Err(); err != nil {
		return model.Driver{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drivers[driver.Phone]; ok {
		return model.Driver{}, myerrors.ErrPhoneRegistered
	}

	now := r.now().UTC()
	if driver.CreatedAt.IsZero() {
		driver.CreatedAt = now
	}
	if driver.LastUpdated.IsZero() {
		driver.LastUpdated = now
	}
	r.drivers[driver.Phone] = clone(driver)
	return clone(driver), nil
}

func (r *DriverRepository) GetByPhone(ctx context.Context, phone string) (model.Driver, error) {
	if err := ctx.Err(); err != nil {
		return model.Driver{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[phone]
	if !ok {
		return model.Driver{}, myerrors.ErrDriverNotFound
	}
	return clone(d), nil
}

// ListByStatus returns matching drivers, most recently updated first.
func (r *DriverRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]model.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		if d.Status == status {
			out = append(out, clone(d))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastUpdated.Equal(out[j].LastUpdated) {
			return out[i].Phone < out[j].Phone
		}
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	return out, nil
}

func (r *DriverRepository) UpdateStatus(ctx context.Context, phone string, change model.StatusChange) (model.Driver, error) {
	if err := ctx.Err(); err != nil {
		return model.Driver{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[phone]
	if !ok {
		return model.Driver{}, myerrors.ErrDriverNotFound
	}
	d.Status = change.Status
	d.Location = copyString(change.Location)
	d.LastUpdated = change.LastUpdated
	r.drivers[phone] = d
	return clone(d), nil
}

func (r *DriverRepository) UpdateProfile(ctx context.Context, phone string, change model.ProfileChange) (model.Driver, error) {
	if err := ctx.Err(); err != nil {
		return model.Driver{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[phone]
	if !ok {
		return model.Driver{}, myerrors.ErrDriverNotFound
	}
	d.Name = change.Name
	d.VehicleType = change.VehicleType
	d.VehicleNumber = change.VehicleNumber
	r.drivers[phone] = d
	return clone(d), nil
}

func (r *DriverRepository) IsAlive(ctx context.Context) error {
	return ctx.Err()
}

func clone(d model.Driver) model.Driver {
	d.Location = copyString(d.Location)
	if d.PasswordHash != nil {
		d.PasswordHash = append([]byte(nil), d.PasswordHash...)
	}
	return d
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

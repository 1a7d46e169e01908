package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/core/domain/dto"
	"iitk-connect/internal/status-board/core/domain/model"
	"iitk-connect/internal/status-board/core/myerrors"
	"iitk-connect/internal/status-board/core/ports/driven"

	"github.com/google/uuid"
)

type DriverService struct {
	repo  driven.IDriverRepository
	auth  *AuthService
	mylog mylogger.Logger
}

func NewDriverService(repo driven.IDriverRepository, auth *AuthService, mylog mylogger.Logger) *DriverService {
	return &DriverService{
		repo:  repo,
		auth:  auth,
		mylog: mylog,
	}
}

// ======================= Register =======================
func (ds *DriverService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResult, error) {
	mylog := ds.mylog.Action("Register").With("phone", req.Phone)

	if err := validateRegistration(req); err != nil {
		return dto.AuthResult{}, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return dto.AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	driver := model.Driver{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Phone:         req.Phone,
		PasswordHash:  hashedPassword,
		VehicleType:   parseVehicleType(req.VehicleType),
		VehicleNumber: strings.TrimSpace(req.VehicleNumber),
		Status:        model.StatusOffline,
	}

	created, err := ds.repo.Create(ctx, driver)
	if err != nil {
		if errors.Is(err, myerrors.ErrPhoneRegistered) {
			mylog.Warn("Failed to register, phone already registered")
			return dto.AuthResult{}, err
		}
		mylog.Error("Failed to save driver in db", err)
		return dto.AuthResult{}, fmt.Errorf("cannot save driver: %w", err)
	}

	token, err := ds.auth.IssueToken(created)
	if err != nil {
		mylog.Error("error to create jwt token", err)
		return dto.AuthResult{}, err
	}

	mylog.Info("Driver registered successfully")
	return dto.AuthResult{Token: token, Driver: created}, nil
}

// ======================= Login =======================
func (ds *DriverService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResult, error) {
	phone := strings.TrimSpace(req.Phone)
	mylog := ds.mylog.Action("Login").With("phone", phone)

	if phone == "" || req.Password == "" {
		return dto.AuthResult{}, fmt.Errorf("%w: phone and password are required", myerrors.ErrInvalidInput)
	}

	driver, err := ds.repo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, myerrors.ErrDriverNotFound) {
			mylog.Warn("Failed to login, unknown phone")
			return dto.AuthResult{}, err
		}
		mylog.Error("Failed to load driver", err)
		return dto.AuthResult{}, fmt.Errorf("cannot load driver: %w", err)
	}

	if !checkPassword(driver.PasswordHash, req.Password) {
		mylog.Debug("Failed to login, wrong password")
		return dto.AuthResult{}, myerrors.ErrCredentialMismatch
	}

	token, err := ds.auth.IssueToken(driver)
	if err != nil {
		mylog.Error("error to create jwt token", err)
		return dto.AuthResult{}, err
	}

	mylog.Info("Driver login successfully")
	return dto.AuthResult{Token: token, Driver: driver}, nil
}

// Lookup reports whether phone is registered. A missing driver is not an error.
func (ds *DriverService) Lookup(ctx context.Context, phone string) (model.Driver, bool, error) {
	driver, err := ds.repo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, myerrors.ErrDriverNotFound) {
			return model.Driver{}, false, nil
		}
		ds.mylog.Action("Lookup").Error("Failed to load driver", err)
		return model.Driver{}, false, err
	}
	return driver, true, nil
}

// UpdateProfile edits name and vehicle fields of the driver identified by phone.
// Phone and status are never touched here.
func (ds *DriverService) UpdateProfile(ctx context.Context, phone string, req dto.ProfileRequest) (model.Driver, error) {
	mylog := ds.mylog.Action("UpdateProfile").With("phone", phone)

	if err := validateProfile(req); err != nil {
		return model.Driver{}, err
	}

	driver, err := ds.repo.UpdateProfile(ctx, phone, model.ProfileChange{
		Name:          strings.TrimSpace(req.Name),
		VehicleType:   parseVehicleType(req.VehicleType),
		VehicleNumber: strings.TrimSpace(req.VehicleNumber),
	})
	if err != nil {
		if !errors.Is(err, myerrors.ErrDriverNotFound) {
			mylog.Error("Failed to update profile", err)
		}
		return model.Driver{}, err
	}

	mylog.Info("Profile updated")
	return driver, nil
}

func (ds *DriverService) AvailableDrivers(ctx context.Context) ([]model.Driver, error) {
	drivers, err := ds.repo.ListByStatus(ctx, model.StatusAvailable)
	if err != nil {
		ds.mylog.Action("AvailableDrivers").Error("Failed to list drivers", err)
		return nil, err
	}
	if drivers == nil {
		drivers = []model.Driver{}
	}
	return drivers, nil
}

func (ds *DriverService) Health(ctx context.Context) error {
	return ds.repo.IsAlive(ctx)
}

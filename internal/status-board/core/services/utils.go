package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"iitk-connect/internal/status-board/core/domain/dto"
	"iitk-connect/internal/status-board/core/domain/model"
	"iitk-connect/internal/status-board/core/myerrors"
)

const (
	MinNameLen = 1
	MaxNameLen = 100

	MinPhoneLen = 10
	MaxPhoneLen = 15

	MinPasswordLen = 5
	MaxPasswordLen = 72 // bcrypt ignores anything longer

	MinVehicleNumberLen = 1
	MaxVehicleNumberLen = 20
)

func validateRegistration(req dto.RegisterRequest) error {
	if err := validateName(req.Name); err != nil {
		return fmt.Errorf("%w: name %v", myerrors.ErrInvalidInput, err)
	}
	if err := validatePhone(req.Phone); err != nil {
		return fmt.Errorf("%w: phone %v", myerrors.ErrInvalidInput, err)
	}
	if err := validatePassword(req.Password); err != nil {
		return fmt.Errorf("%w: password %v", myerrors.ErrInvalidInput, err)
	}
	return validateVehicle(req.VehicleType, req.VehicleNumber)
}

func validateProfile(req dto.ProfileRequest) error {
	if err := validateName(req.Name); err != nil {
		return fmt.Errorf("%w: name %v", myerrors.ErrInvalidInput, err)
	}
	return validateVehicle(req.VehicleType, req.VehicleNumber)
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < MinNameLen || n > MaxNameLen {
		return fmt.Errorf("must be in range [%d, %d] characters", MinNameLen, MaxNameLen)
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) < MinPhoneLen || len(phone) > MaxPhoneLen {
		return fmt.Errorf("must be %d to %d digits", MinPhoneLen, MaxPhoneLen)
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return fmt.Errorf("must contain digits only")
		}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLen || len(password) > MaxPasswordLen {
		return fmt.Errorf("must be in range [%d, %d] bytes", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

func validateVehicle(vehicleType, vehicleNumber string) error {
	if vt := parseVehicleType(vehicleType); !vt.Valid() {
		return fmt.Errorf("%w: vehicleType must be %q or %q", myerrors.ErrInvalidInput, model.VehicleAuto, model.VehicleRickshaw)
	}
	n := utf8.RuneCountInString(strings.TrimSpace(vehicleNumber))
	if n < MinVehicleNumberLen || n > MaxVehicleNumberLen {
		return fmt.Errorf("%w: vehicleNumber must be in range [%d, %d] characters", myerrors.ErrInvalidInput, MinVehicleNumberLen, MaxVehicleNumberLen)
	}
	return nil
}

// parseVehicleType defaults an empty value to Auto.
func parseVehicleType(v string) model.VehicleType {
	v = strings.TrimSpace(v)
	if v == "" {
		return model.VehicleAuto
	}
	return model.VehicleType(v)
}

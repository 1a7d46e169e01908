package model

import "time"

type Status string

const (
	StatusOffline   Status = "OFFLINE"
	StatusBusy      Status = "BUSY"
	StatusAvailable Status = "AVAILABLE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOffline, StatusBusy, StatusAvailable:
		return true
	}
	return false
}

type VehicleType string

const (
	VehicleAuto     VehicleType = "Auto"
	VehicleRickshaw VehicleType = "Rickshaw"
)

func (v VehicleType) Valid() bool {
	return v == VehicleAuto || v == VehicleRickshaw
}

// Driver is the single persisted record. Phone is the natural key and never
// changes after registration.
type Driver struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Phone         string      `json:"phone"`
	PasswordHash  []byte      `json:"-"`
	VehicleType   VehicleType `json:"vehicleType"`
	VehicleNumber string      `json:"vehicleNumber"`
	Status        Status      `json:"status"`
	// Location is only guaranteed meaningful while Status is AVAILABLE. BUSY
	// keeps the last known value.
	Location    *string   `json:"location"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (d Driver) LocationName() string {
	if d.Location == nil {
		return ""
	}
	return *d.Location
}

// StatusChange is what the status engine writes back for one driver.
type StatusChange struct {
	Status      Status
	Location    *string
	LastUpdated time.Time
}

// ProfileChange carries the only profile fields a driver may edit.
type ProfileChange struct {
	Name          string
	VehicleType   VehicleType
	VehicleNumber string
}

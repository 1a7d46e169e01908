package dto

import "iitk-connect/internal/status-board/core/domain/model"

type RegisterRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type ProfileRequest struct {
	Phone         string `json:"phone,omitempty"`
	Name          string `json:"name"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
}

type UpdateRequest struct {
	Code string `json:"code"`
}

type AuthResult struct {
	Token  string
	Driver model.Driver
}

// StatusResult is what the status engine hands back. Driver is populated on
// success and on an invalid code.
type StatusResult struct {
	Message string
	Driver  *model.Driver
}

type TokenClaims struct {
	Phone    string
	DriverID string
}

// Response bodies

type DriverSummary struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type RegisterResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Token   string        `json:"token"`
	Driver  DriverSummary `json:"driver"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	Driver  model.Driver `json:"driver"`
}

type MessageResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Driver  *model.Driver `json:"driver,omitempty"`
}

type LookupResponse struct {
	Exists bool          `json:"exists"`
	Driver *model.Driver `json:"driver,omitempty"`
}

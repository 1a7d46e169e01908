package main

import "time"

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

const (
	DefaultCodeInterval = 5 * time.Second
	HTTPRequestDelay    = 200 * time.Millisecond
	HTTPTimeout         = 10 * time.Second
)

// API paths, relative to the base URL.
const (
	RegisterPath = "/api/register"
	LoginPath    = "/api/login"
	SMSPath      = "/api/sms"
	CodesPath    = "/api/codes"
	WSDriverPath = "/ws/driver"
)

// Config is filled from flags.
type Config struct {
	BaseURL      string
	Mode         string // "ws" or "sms"
	CodeInterval time.Duration
	Rounds       int
	Credentials  DriverCredentials
}

type DriverCredentials struct {
	Name          string
	Phone         string
	Password      string
	VehicleType   string
	VehicleNumber string
}

package messagebrokerdto

import "time"

// DriverStatusEvent → driver_topic exchange → driver.status.{status}
type DriverStatusEvent struct {
	DriverID  string    `json:"driver_id"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	Location  *string   `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

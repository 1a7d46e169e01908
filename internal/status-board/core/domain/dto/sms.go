package dto

// SMSReply is always sent with HTTP 200. Either Error is set, or Success/Message.
type SMSReply struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

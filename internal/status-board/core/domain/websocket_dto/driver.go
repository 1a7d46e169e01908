package websocketdto

const (
	MessageTypeAuth      = "auth"
	MessageTypeAuthOK    = "auth_ok"
	MessageTypeStatus    = "status"
	MessageTypeStatusAck = "status_ack"
	MessageTypeError     = "error"
)

type WebSocketMessage struct {
	Type string `json:"type"`
}

type AuthMessage struct {
	WebSocketMessage
	Token string `json:"token"`
}

type StatusMessage struct {
	WebSocketMessage
	Code string `json:"code"`
}

type StatusAckMessage struct {
	WebSocketMessage
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorMessage struct {
	WebSocketMessage
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

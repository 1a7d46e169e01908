package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/core/domain/dto"
	"iitk-connect/internal/status-board/core/myerrors"
)

const (
	MsgMissingData = "Missing data"
	MsgSMSFailure  = "Could not process message"

	countryPrefix = "91"
)

// SMSFields lists the candidate keys probed for the sender and the body, in
// priority order. The first key holding a non-empty value wins.
type SMSFields struct {
	Phone   []string
	Message []string
}

func DefaultSMSFields() SMSFields {
	return SMSFields{
		Phone:   []string{"From", "from", "sender", "address"},
		Message: []string{"Body", "body", "message", "msg", "content"},
	}
}

type SMSService struct {
	status *StatusService
	fields SMSFields
	log    mylogger.Logger
}

func NewSMSService(status *StatusService, fields SMSFields, log mylogger.Logger) *SMSService {
	return &SMSService{
		status: status,
		fields: fields,
		log:    log,
	}
}

// Handle never fails: every outcome is folded into the reply so the gateway
// stops retrying.
func (s *SMSService) Handle(ctx context.Context, fields map[string]string) dto.SMSReply {
	mylog := s.log.Action("HandleSMS")

	phone := NormalizePhone(FirstPresent(fields, s.fields.Phone))
	code := NormalizeCode(FirstPresent(fields, s.fields.Message))
	if phone == "" || code == "" {
		mylog.Warn("sms without phone or code", "keys", len(fields))
		return dto.SMSReply{Error: MsgMissingData}
	}

	mylog = mylog.With("phone", phone, "code", code)

	result, err := s.status.ApplyUpdate(ctx, phone, code)
	switch {
	case err == nil:
		return reply(true, result.Message)
	case errors.Is(err, myerrors.ErrDriverNotFound), errors.Is(err, myerrors.ErrInvalidCode):
		mylog.Debug("sms rejected", "reason", result.Message)
		return reply(false, result.Message)
	default:
		mylog.Error("sms update failed", err)
		return dto.SMSReply{Error: MsgSMSFailure}
	}
}

func reply(success bool, message string) dto.SMSReply {
	return dto.SMSReply{Success: &success, Message: message}
}

// FirstPresent returns the first non-blank value among keys.
func FirstPresent(fields map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := fields[k]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// NormalizePhone keeps digits only and drops a leading 91 from 12-digit numbers.
func NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) == 12 && strings.HasPrefix(digits, countryPrefix) {
		return digits[len(countryPrefix):]
	}
	return digits
}

func NormalizeCode(raw string) string {
	return strings.TrimFunc(raw, unicode.IsSpace)
}

// FieldsFromJSON flattens a loose JSON object into string fields. Numbers keep
// their literal form so a numeric sender like 918957766736 survives intact.
func FieldsFromJSON(body []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	raw := map[string]any{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", myerrors.ErrMissingSMSData, err)
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields, nil
}

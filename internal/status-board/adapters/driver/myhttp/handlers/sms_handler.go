package handlers

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/core/ports/driver"
	"iitk-connect/internal/status-board/core/services"
)

type SMSHandler struct {
	smsService driver.ISMSService
	mylog      mylogger.Logger
}

func NewSMSHandler(smsService driver.ISMSService, mylog mylogger.Logger) *SMSHandler {
	return &SMSHandler{
		smsService: smsService,
		mylog:      mylog,
	}
}

// Receive is the gateway webhook. It always answers 200 so the gateway does
// not retry; failures travel in the body.
func (h *SMSHandler) Receive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := LoggerFrom(r.Context(), h.mylog).Action("ReceiveSMS")

		fields := h.fields(w, r, mylog)

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		JsonResponse(w, http.StatusOK, h.smsService.Handle(ctx, fields))
	}
}

// fields reads either a JSON object or a form body into flat string fields.
// An unreadable body yields no fields, which the service reports as missing data.
func (h *SMSHandler) fields(w http.ResponseWriter, r *http.Request, mylog mylogger.Logger) map[string]string {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			mylog.Warn("failed to read sms body", "error", err.Error())
			return nil
		}
		fields, err := services.FieldsFromJSON(body)
		if err != nil {
			mylog.Warn("sms body is not a JSON object", "error", err.Error())
			return nil
		}
		return fields
	}

	if err := r.ParseForm(); err != nil {
		mylog.Warn("failed to parse sms form", "error", err.Error())
		return nil
	}
	fields := make(map[string]string, len(r.Form))
	for k, v := range r.Form {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields
}

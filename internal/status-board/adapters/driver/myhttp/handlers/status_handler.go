package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/core/domain/dto"
	"iitk-connect/internal/status-board/core/myerrors"
	"iitk-connect/internal/status-board/core/ports/driver"
)

type StatusHandler struct {
	statusService driver.IStatusService
	mylog         mylogger.Logger
}

func NewStatusHandler(statusService driver.IStatusService, mylog mylogger.Logger) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
		mylog:         mylog,
	}
}

// Update applies a code for the driver named by the bearer token. The body
// never selects the driver.
func (h *StatusHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := LoggerFrom(r.Context(), h.mylog).Action("Update")

		claims, ok := ClaimsFrom(r.Context())
		if !ok {
			JsonFailure(w, http.StatusUnauthorized, MsgMissingTokenInfo)
			return
		}

		var req dto.UpdateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			JsonFailure(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := h.statusService.ApplyUpdate(ctx, claims.Phone, req.Code)
		if err != nil {
			switch {
			case errors.Is(err, myerrors.ErrInvalidCode):
				JsonResponse(w, http.StatusBadRequest, dto.MessageResponse{Success: false, Message: res.Message, Driver: res.Driver})
			case errors.Is(err, myerrors.ErrDriverNotFound):
				JsonFailure(w, http.StatusNotFound, res.Message)
			default:
				mylog.Error("status update failed", err)
				JsonError(w, http.StatusInternalServerError, errors.New(MsgInternalError))
			}
			return
		}

		JsonResponse(w, http.StatusOK, dto.MessageResponse{
			Success: true,
			Message: res.Message,
			Driver:  res.Driver,
		})
	}
}

// Codes serves the code table so clients can render the cheat sheet.
func (h *StatusHandler) Codes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		JsonResponse(w, http.StatusOK, h.statusService.Codes())
	}
}

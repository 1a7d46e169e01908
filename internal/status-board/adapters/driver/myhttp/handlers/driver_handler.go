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

	"github.com/go-chi/chi/v5"
)

const (
	MsgWelcome          = "Welcome!"
	MsgAlreadyExists    = "Driver already registered with this phone."
	MsgUserNotFound     = "User not found"
	MsgInvalidPassword  = "Invalid Password"
	MsgProfileUpdated   = "Profile Updated Successfully!"
	MsgDriverNotFound   = "Driver not found."
	MsgPhoneMismatch    = "Cannot edit another driver's profile."
	MsgInternalError    = "Internal server error"
	MsgMissingTokenInfo = "Token carries no driver"
)

type DriverHandler struct {
	driverService driver.IDriverService
	mylog         mylogger.Logger
}

func NewDriverHandler(driverService driver.IDriverService, mylog mylogger.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		mylog:         mylog,
	}
}

func (h *DriverHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := LoggerFrom(r.Context(), h.mylog).Action("Register")

		var req dto.RegisterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			mylog.Debug("bad registration body", "error", err.Error())
			JsonFailure(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := h.driverService.Register(ctx, req)
		if err != nil {
			switch {
			case errors.Is(err, myerrors.ErrPhoneRegistered):
				JsonFailure(w, http.StatusConflict, MsgAlreadyExists)
			case errors.Is(err, myerrors.ErrInvalidInput):
				JsonFailure(w, http.StatusBadRequest, err.Error())
			default:
				mylog.Error("registration failed", err)
				JsonError(w, http.StatusInternalServerError, errors.New(MsgInternalError))
			}
			return
		}

		JsonResponse(w, http.StatusOK, dto.RegisterResponse{
			Success: true,
			Message: MsgWelcome,
			Token:   res.Token,
			Driver:  dto.DriverSummary{Name: res.Driver.Name, Phone: res.Driver.Phone},
		})
	}
}

func (h *DriverHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := LoggerFrom(r.Context(), h.mylog).Action("Login")

		var req dto.LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			JsonFailure(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := h.driverService.Login(ctx, req)
		if err != nil {
			switch {
			case errors.Is(err, myerrors.ErrDriverNotFound):
				JsonFailure(w, http.StatusNotFound, MsgUserNotFound)
			case errors.Is(err, myerrors.ErrCredentialMismatch):
				JsonFailure(w, http.StatusUnauthorized, MsgInvalidPassword)
			case errors.Is(err, myerrors.ErrInvalidInput):
				JsonFailure(w, http.StatusBadRequest, err.Error())
			default:
				mylog.Error("login failed", err)
				JsonError(w, http.StatusInternalServerError, errors.New(MsgInternalError))
			}
			return
		}

		JsonResponse(w, http.StatusOK, dto.LoginResponse{
			Success: true,
			Token:   res.Token,
			Driver:  res.Driver,
		})
	}
}

// Lookup answers whether a phone is registered. Unknown phones are not an error.
func (h *DriverHandler) Lookup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		d, ok, err := h.driverService.Lookup(ctx, chi.URLParam(r, "phone"))
		if err != nil {
			LoggerFrom(r.Context(), h.mylog).Action("Lookup").Error("lookup failed", err)
			JsonError(w, http.StatusInternalServerError, errors.New(MsgInternalError))
			return
		}
		if !ok {
			JsonResponse(w, http.StatusOK, dto.LookupResponse{Exists: false})
			return
		}
		JsonResponse(w, http.StatusOK, dto.LookupResponse{Exists: true, Driver: &d})
	}
}

// UpdateProfile edits the profile of the driver named by the bearer token.
func (h *DriverHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := LoggerFrom(r.Context(), h.mylog).Action("UpdateProfile")

		claims, ok := ClaimsFrom(r.Context())
		if !ok {
			JsonFailure(w, http.StatusUnauthorized, MsgMissingTokenInfo)
			return
		}

		var req dto.ProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			JsonFailure(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Phone != "" && req.Phone != claims.Phone {
			mylog.Warn("profile edit for another phone rejected", "token_phone", claims.Phone, "body_phone", req.Phone)
			JsonFailure(w, http.StatusForbidden, MsgPhoneMismatch)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		d, err := h.driverService.UpdateProfile(ctx, claims.Phone, req)
		if err != nil {
			switch {
			case errors.Is(err, myerrors.ErrDriverNotFound):
				JsonFailure(w, http.StatusNotFound, MsgDriverNotFound)
			case errors.Is(err, myerrors.ErrInvalidInput):
				JsonFailure(w, http.StatusBadRequest, err.Error())
			default:
				mylog.Error("profile update failed", err)
				JsonError(w, http.StatusInternalServerError, errors.New(MsgInternalError))
			}
			return
		}

		JsonResponse(w, http.StatusOK, dto.MessageResponse{
			Success: true,
			Message: MsgProfileUpdated,
			Driver:  &d,
		})
	}
}

// Riders lists the drivers currently AVAILABLE, most recently updated first.
func (h *DriverHandler) Riders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		drivers, err := h.driverService.AvailableDrivers(ctx)
		if err != nil {
			LoggerFrom(r.Context(), h.mylog).Action("Riders").Error("listing drivers failed", err)
			JsonError(w, http.StatusInternalServerError, errors.New(MsgInternalError))
			return
		}
		JsonResponse(w, http.StatusOK, drivers)
	}
}

func (h *DriverHandler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.driverService.Health(ctx); err != nil {
			LoggerFrom(r.Context(), h.mylog).Action("Health").Warn("store not reachable", "error", err.Error())
			JsonResponse(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
		JsonResponse(w, http.StatusOK, map[string]any{"ok": true})
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/core/domain/dto"
)

const (
	WaitTime     = 10       // seconds
	maxBodyBytes = 64 << 10 // request bodies are tiny JSON or form posts
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	loggerKey
)

// WithClaims stores the verified token claims for downstream handlers.
func WithClaims(ctx context.Context, claims dto.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFrom(ctx context.Context) (dto.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(dto.TokenClaims)
	return claims, ok
}

// WithLogger stores a request scoped logger.
func WithLogger(ctx context.Context, l mylogger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// LoggerFrom returns the request logger, or fallback when none was attached.
func LoggerFrom(ctx context.Context, fallback mylogger.Logger) mylogger.Logger {
	if l, ok := ctx.Value(loggerKey).(mylogger.Logger); ok {
		return l
	}
	return fallback
}

// JsonResponse writes data as JSON with the given status code.
func JsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes {"error": ...} with the given status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}

// JsonFailure writes {"success": false, "message": ...}.
func JsonFailure(w http.ResponseWriter, code int, message string) {
	JsonResponse(w, code, dto.MessageResponse{Success: false, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

package middleware

import (
	"errors"
	"net/http"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/adapters/driver/myhttp/handlers"
	"iitk-connect/internal/status-board/core/myerrors"
	"iitk-connect/internal/status-board/core/ports/driver"
)

type AuthMiddleware struct {
	auth  driver.IAuthService
	mylog mylogger.Logger
}

func NewAuthMiddleware(auth driver.IAuthService, mylog mylogger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:  auth,
		mylog: mylog,
	}
}

// Wrap rejects requests without a valid bearer token: 401 when the header is
// absent or malformed, 403 when the token itself is bad or expired.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := am.auth.VerifyToken(r.Header.Get("Authorization"))
		if err != nil {
			mylog := handlers.LoggerFrom(r.Context(), am.mylog).Action("auth")
			if errors.Is(err, myerrors.ErrUnauthorized) {
				mylog.Debug("missing bearer token")
				handlers.JsonFailure(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			mylog.Debug("token rejected", "error", err.Error())
			handlers.JsonFailure(w, http.StatusForbidden, "Forbidden")
			return
		}

		ctx := handlers.WithClaims(r.Context(), claims)
		ctx = handlers.WithLogger(ctx, handlers.LoggerFrom(ctx, am.mylog).With("phone", claims.Phone))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

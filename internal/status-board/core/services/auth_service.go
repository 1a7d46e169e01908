package services

import (
	"fmt"
	"strings"
	"time"

	"iitk-connect/internal/status-board/core/domain/dto"
	"iitk-connect/internal/status-board/core/domain/model"
	"iitk-connect/internal/status-board/core/myerrors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const HashFactor = 10

type AuthService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(secretKey string, ttl time.Duration, now func() time.Time) *AuthService {
	return &AuthService{
		secret: []byte(secretKey),
		ttl:    ttl,
		now:    now,
	}
}

type DriverClaims struct {
	Phone string `json:"phone"`
	ID    string `json:"id"`
	jwt.RegisteredClaims
}

func (a *AuthService) IssueToken(driver model.Driver) (string, error) {
	issued := a.now()
	claims := DriverClaims{
		Phone: driver.Phone,
		ID:    driver.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(a.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// VerifyToken takes the raw Authorization header. An absent or malformed
// header is ErrUnauthorized; a token that fails signature, expiry or claim
// checks is ErrForbidden.
func (a *AuthService) VerifyToken(header string) (dto.TokenClaims, error) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return dto.TokenClaims{}, myerrors.ErrUnauthorized
	}

	claims := &DriverClaims{}
	token, err := jwt.ParseWithClaims(fields[1], claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return dto.TokenClaims{}, fmt.Errorf("%w: %v", myerrors.ErrForbidden, err)
	}
	if !token.Valid || claims.Phone == "" {
		return dto.TokenClaims{}, myerrors.ErrForbidden
	}

	return dto.TokenClaims{Phone: claims.Phone, DriverID: claims.ID}, nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), HashFactor)
}

func checkPassword(hashed []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hashed, []byte(password)) == nil
}

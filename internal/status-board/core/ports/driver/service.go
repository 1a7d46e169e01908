package driver

import (
	"context"

	"iitk-connect/internal/status-board/core/codemap"
	"iitk-connect/internal/status-board/core/domain/dto"
	"iitk-connect/internal/status-board/core/domain/model"
)

type IStatusService interface {
	ApplyUpdate(ctx context.Context, phone, code string) (dto.StatusResult, error)
	Codes() []codemap.Entry
}

type IDriverService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResult, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResult, error)
	Lookup(ctx context.Context, phone string) (model.Driver, bool, error)
	UpdateProfile(ctx context.Context, phone string, req dto.ProfileRequest) (model.Driver, error)
	AvailableDrivers(ctx context.Context) ([]model.Driver, error)
	Health(ctx context.Context) error
}

type IAuthService interface {
	IssueToken(driver model.Driver) (string, error)
	VerifyToken(header string) (dto.TokenClaims, error)
}

type ISMSService interface {
	Handle(ctx context.Context, fields map[string]string) dto.SMSReply
}

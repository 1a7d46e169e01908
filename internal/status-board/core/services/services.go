package services

import (
	"time"

	"iitk-connect/internal/config"
	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/core/codemap"
	"iitk-connect/internal/status-board/core/ports/driven"
)

type Service struct {
	StatusService *StatusService
	DriverService *DriverService
	AuthService   *AuthService
	SMSService    *SMSService
}

func New(
	repo driven.IDriverRepository,
	publisher driven.IDriverEventPublisher,
	codes *codemap.Map,
	appCfg *config.Appconfig,
	log mylogger.Logger,
) *Service {
	auth := NewAuthService(appCfg.JwtSecret, appCfg.JwtTTL, time.Now)
	status := NewStatusService(repo, codes, publisher, log, time.Now)
	return &Service{
		StatusService: status,
		DriverService: NewDriverService(repo, auth, log),
		AuthService:   auth,
		SMSService:    NewSMSService(status, DefaultSMSFields(), log),
	}
}

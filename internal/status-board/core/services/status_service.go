package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/core/codemap"
	"iitk-connect/internal/status-board/core/domain/dto"
	messagebrokerdto "iitk-connect/internal/status-board/core/domain/message_broker_dto"
	"iitk-connect/internal/status-board/core/domain/model"
	"iitk-connect/internal/status-board/core/myerrors"
	"iitk-connect/internal/status-board/core/ports/driven"
)

const (
	MsgOffline       = "You are Offline."
	MsgBusy          = "Status: Busy."
	MsgUpdatedFormat = "Updated: %s"
	MsgInvalidCode   = "Invalid Code."
	MsgNotRegistered = "Driver not registered."
)

// StatusService turns a (phone, code) pair into a driver status transition.
type StatusService struct {
	repo      driven.IDriverRepository
	codes     *codemap.Map
	publisher driven.IDriverEventPublisher
	log       mylogger.Logger
	now       func() time.Time
}

func NewStatusService(
	repo driven.IDriverRepository,
	codes *codemap.Map,
	publisher driven.IDriverEventPublisher,
	log mylogger.Logger,
	now func() time.Time,
) *StatusService {
	return &StatusService{
		repo:      repo,
		codes:     codes,
		publisher: publisher,
		log:       log,
		now:       now,
	}
}

// ApplyUpdate resolves code against the code map and persists the new state
// with a single write. An invalid code returns ErrInvalidCode together with the
// untouched driver and performs no write.
func (s *StatusService) ApplyUpdate(ctx context.Context, phone, code string) (dto.StatusResult, error) {
	mylog := s.log.Action("ApplyUpdate").With("phone", phone)

	driver, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, myerrors.ErrDriverNotFound) {
			mylog.Warn("status update for unregistered phone")
			return dto.StatusResult{Message: MsgNotRegistered}, err
		}
		mylog.Error("failed to load driver", err)
		return dto.StatusResult{}, fmt.Errorf("load driver: %w", err)
	}

	action := s.codes.Resolve(code)
	change := model.StatusChange{Location: driver.Location}
	var message string

	switch action.Kind {
	case codemap.KindOffline:
		change.Status = model.StatusOffline
		change.Location = nil
		message = MsgOffline
	case codemap.KindBusy:
		change.Status = model.StatusBusy
		message = MsgBusy
	case codemap.KindAvailable:
		location := action.Location
		change.Status = model.StatusAvailable
		change.Location = &location
		message = fmt.Sprintf(MsgUpdatedFormat, location)
	default:
		mylog.Debug("rejected unknown code", "code", code)
		return dto.StatusResult{Message: MsgInvalidCode, Driver: &driver}, myerrors.ErrInvalidCode
	}

	change.LastUpdated = s.now().UTC()

	updated, err := s.repo.UpdateStatus(ctx, phone, change)
	if err != nil {
		mylog.Error("failed to persist status", err)
		return dto.StatusResult{}, fmt.Errorf("persist status: %w", err)
	}

	s.announce(ctx, mylog, updated)

	mylog.Info("status updated", "status", updated.Status, "location", updated.LocationName())
	return dto.StatusResult{Message: message, Driver: &updated}, nil
}

func (s *StatusService) Codes() []codemap.Entry {
	return s.codes.Entries()
}

// announce is best effort; the record is already committed.
func (s *StatusService) announce(ctx context.Context, mylog mylogger.Logger, d model.Driver) {
	if s.publisher == nil {
		return
	}
	event := messagebrokerdto.DriverStatusEvent{
		DriverID:  d.ID,
		Phone:     d.Phone,
		Status:    string(d.Status),
		Location:  d.Location,
		Timestamp: d.LastUpdated,
	}
	if err := s.publisher.PublishStatus(ctx, event); err != nil {
		mylog.Warn("status event not published", "error", err.Error())
	}
}

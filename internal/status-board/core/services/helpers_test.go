package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/adapters/driven/memory"
	"iitk-connect/internal/status-board/core/codemap"
	messagebrokerdto "iitk-connect/internal/status-board/core/domain/message_broker_dto"
	"iitk-connect/internal/status-board/core/domain/model"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// countingRepo wraps the memory store and records status writes.
type countingRepo struct {
	*memory.DriverRepository
	mu           sync.Mutex
	statusWrites int
	failWrites   error
}

func (c *countingRepo) UpdateStatus(ctx context.Context, phone string, change model.StatusChange) (model.Driver, error) {
	c.mu.Lock()
	c.statusWrites++
	fail := c.failWrites
	c.mu.Unlock()
	if fail != nil {
		return model.Driver{}, fail
	}
	return c.DriverRepository.UpdateStatus(ctx, phone, change)
}

func (c *countingRepo) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusWrites
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []messagebrokerdto.DriverStatusEvent
	err    error
}

func (p *recordingPublisher) PublishStatus(_ context.Context, event messagebrokerdto.DriverStatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	repo      *countingRepo
	publisher *recordingPublisher
	auth      *AuthService
	status    *StatusService
	drivers   *DriverService
	sms       *SMSService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithCodes(t, codemap.Default())
}

func newFixtureWithCodes(t *testing.T, codes *codemap.Map) *fixture {
	t.Helper()
	clock := func() time.Time { return testNow }
	repo := &countingRepo{DriverRepository: memory.NewDriverRepository()}
	pub := &recordingPublisher{}
	log := mylogger.Nop()

	auth := NewAuthService("test-secret", time.Hour, clock)
	status := NewStatusService(repo, codes, pub, log, clock)
	return &fixture{
		repo:      repo,
		publisher: pub,
		auth:      auth,
		status:    status,
		drivers:   NewDriverService(repo, auth, log),
		sms:       NewSMSService(status, DefaultSMSFields(), log),
	}
}

func (f *fixture) seed(t *testing.T, phone string) model.Driver {
	t.Helper()
	d, err := f.repo.Create(context.Background(), model.Driver{
		ID:            "driver-" + phone,
		Name:          "Ramesh",
		Phone:         phone,
		PasswordHash:  []byte("x"),
		VehicleType:   model.VehicleAuto,
		VehicleNumber: "UP78 AB 1234",
		Status:        model.StatusOffline,
	})
	require.NoError(t, err)
	return d
}

var errBoom = errors.New("boom")

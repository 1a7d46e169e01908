package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"iitk-connect/internal/status-board/core/codemap"
	websocketdto "iitk-connect/internal/status-board/core/domain/websocket_dto"
)

// DriverService plays one driver's shift against the status board.
type DriverService struct {
	cfg        Config
	jwtToken   string
	httpClient *HTTPClient
	wsClient   *WebSocketClient
	logger     *Logger
	ctx        context.Context
}

func NewDriverService(ctx context.Context, cfg Config, logger *Logger) *DriverService {
	return &DriverService{
		cfg:        cfg,
		httpClient: NewHTTPClient(cfg.BaseURL, logger),
		wsClient:   NewWebSocketClient(ctx, logger),
		logger:     logger,
		ctx:        ctx,
	}
}

func (d *DriverService) Run() error {
	entries, err := d.httpClient.Codes()
	if err != nil {
		return fmt.Errorf("fetching code table: %w", err)
	}
	plan := ShiftCodes(entries, d.cfg.Rounds, rand.New(rand.NewSource(time.Now().UnixNano())))
	d.logger.Info("Shift plan: %s", strings.Join(plan, " "))

	if d.cfg.Mode == "sms" {
		return d.runSMS(plan)
	}

	token, err := d.httpClient.SignIn(d.cfg.Credentials)
	if err != nil {
		return err
	}
	d.jwtToken = token
	return d.runSocket(plan)
}

func (d *DriverService) runSocket(plan []string) error {
	if err := d.wsClient.Connect(wsURL(d.cfg.BaseURL) + WSDriverPath); err != nil {
		return err
	}
	defer d.wsClient.Close()

	if err := d.Authenticate(); err != nil {
		return err
	}

	return d.each(plan, func(code string) error {
		if err := d.wsClient.SendMessage(websocketdto.StatusMessage{
			WebSocketMessage: websocketdto.WebSocketMessage{Type: websocketdto.MessageTypeStatus},
			Code:             code,
		}); err != nil {
			return err
		}
		var ack websocketdto.StatusAckMessage
		if err := d.wsClient.Receive(&ack); err != nil {
			return err
		}
		d.logger.WebSocket("code %s -> %s (success=%v)", code, ack.Message, ack.Success)
		return nil
	})
}

func (d *DriverService) Authenticate() error {
	if err := d.wsClient.SendMessage(websocketdto.AuthMessage{
		WebSocketMessage: websocketdto.WebSocketMessage{Type: websocketdto.MessageTypeAuth},
		Token:            d.jwtToken,
	}); err != nil {
		return err
	}

	var reply websocketdto.ErrorMessage
	if err := d.wsClient.Receive(&reply); err != nil {
		return err
	}
	if reply.Type != websocketdto.MessageTypeAuthOK {
		return fmt.Errorf("socket auth rejected: %s %s", reply.ErrorCode, reply.ErrorMessage)
	}
	d.logger.WebSocket("Authenticated")
	return nil
}

// runSMS needs the driver to exist already; SMS cannot register.
func (d *DriverService) runSMS(plan []string) error {
	from := "+91 " + d.cfg.Credentials.Phone
	return d.each(plan, func(code string) error {
		reply, err := d.httpClient.SendSMS(from, code)
		if err != nil {
			return err
		}
		if reply.Error != "" {
			d.logger.Warn("sms %s -> error %s", code, reply.Error)
			return nil
		}
		d.logger.Info("sms %s -> %s", code, reply.Message)
		return nil
	})
}

func (d *DriverService) each(plan []string, send func(code string) error) error {
	ticker := time.NewTicker(d.cfg.CodeInterval)
	defer ticker.Stop()

	for i, code := range plan {
		if err := send(code); err != nil {
			return fmt.Errorf("code %d/%d: %w", i+1, len(plan), err)
		}
		if i == len(plan)-1 {
			break
		}
		select {
		case <-ticker.C:
		case <-d.ctx.Done():
			d.logger.Info("Shift interrupted")
			return nil
		}
	}
	d.logger.Info("Shift finished")
	return nil
}

// ShiftCodes builds a plan: each round parks at a random location then goes
// busy, and the shift ends offline.
func ShiftCodes(entries []codemap.Entry, rounds int, rng *rand.Rand) []string {
	var offline, busy string
	var locations []string
	for _, e := range entries {
		switch e.Action {
		case codemap.KindOffline.String():
			offline = e.Code
		case codemap.KindBusy.String():
			busy = e.Code
		case codemap.KindAvailable.String():
			locations = append(locations, e.Code)
		}
	}

	var plan []string
	if len(locations) > 0 {
		for i := 0; i < rounds; i++ {
			plan = append(plan, locations[rng.Intn(len(locations))])
			if busy != "" {
				plan = append(plan, busy)
			}
		}
	}
	if offline != "" {
		plan = append(plan, offline)
	}
	return plan
}

func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base
}

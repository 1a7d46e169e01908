package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"iitk-connect/internal/status-board/core/codemap"
	"iitk-connect/internal/status-board/core/domain/dto"
)

type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *Logger
}

func NewHTTPClient(baseURL string, logger *Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: HTTPTimeout},
		logger:  logger,
	}
}

// DoRequest sends body as JSON and returns the status code and raw response.
func (h *HTTPClient) DoRequest(method, path string, body interface{}, headers map[string]string) (int, []byte, error) {
	time.Sleep(HTTPRequestDelay)

	var bodyBytes []byte
	var err error
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshaling request body: %w", err)
		}
	}

	req, err := http.NewRequest(method, h.baseURL+path, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	h.logger.HTTP("%s %s -> %d", method, path, resp.StatusCode)
	return resp.StatusCode, data, nil
}

// SignIn registers the driver, or logs in when the phone is already taken.
func (h *HTTPClient) SignIn(creds DriverCredentials) (string, error) {
	status, data, err := h.DoRequest(http.MethodPost, RegisterPath, dto.RegisterRequest{
		Name:          creds.Name,
		Phone:         creds.Phone,
		Password:      creds.Password,
		VehicleType:   creds.VehicleType,
		VehicleNumber: creds.VehicleNumber,
	}, nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusOK {
		var reg dto.RegisterResponse
		if err := json.Unmarshal(data, &reg); err != nil {
			return "", fmt.Errorf("unmarshaling register response: %w", err)
		}
		h.logger.Info("Registered %s: %s", reg.Driver.Phone, reg.Message)
		return reg.Token, nil
	}
	if status != http.StatusConflict {
		return "", fmt.Errorf("register failed with %d: %s", status, data)
	}

	status, data, err = h.DoRequest(http.MethodPost, LoginPath, dto.LoginRequest{
		Phone:    creds.Phone,
		Password: creds.Password,
	}, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("login failed with %d: %s", status, data)
	}
	var login dto.LoginResponse
	if err := json.Unmarshal(data, &login); err != nil {
		return "", fmt.Errorf("unmarshaling login response: %w", err)
	}
	h.logger.Info("Logged in as %s (%s)", login.Driver.Name, login.Driver.Status)
	return login.Token, nil
}

func (h *HTTPClient) Codes() ([]codemap.Entry, error) {
	status, data, err := h.DoRequest(http.MethodGet, CodesPath, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("codes failed with %d", status)
	}
	var entries []codemap.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshaling codes: %w", err)
	}
	return entries, nil
}

// SendSMS posts the payload shape an Android SMS forwarder uses.
func (h *HTTPClient) SendSMS(from, body string) (dto.SMSReply, error) {
	_, data, err := h.DoRequest(http.MethodPost, SMSPath, map[string]string{
		"from":    from,
		"content": body,
	}, nil)
	if err != nil {
		return dto.SMSReply{}, err
	}
	var reply dto.SMSReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return dto.SMSReply{}, fmt.Errorf("unmarshaling sms reply: %w", err)
	}
	return reply, nil
}

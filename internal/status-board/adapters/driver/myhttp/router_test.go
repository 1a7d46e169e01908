package myhttp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"iitk-connect/internal/config"
	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/adapters/driven/bm"
	"iitk-connect/internal/status-board/adapters/driven/memory"
	"iitk-connect/internal/status-board/core/codemap"
	"iitk-connect/internal/status-board/core/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhone = "9999999999"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := services.New(
		memory.NewDriverRepository(),
		bm.NopPublisher{},
		codemap.Default(),
		&config.Appconfig{JwtSecret: "test-secret", JwtTTL: time.Hour},
		mylogger.Nop(),
	)
	srv := httptest.NewServer(NewRouter(svc, "*", mylogger.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func register(t *testing.T, srv *httptest.Server, phone string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{
		"name":          "Ramesh",
		"phone":         phone,
		"password":      "secret1",
		"vehicleType":   "Auto",
		"vehicleNumber": "UP78 AB 1234",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{
		"name": "Ramesh", "phone": testPhone, "password": "secret1", "vehicleNumber": "UP78 AB 1234",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Welcome!", body["message"])
	assert.Equal(t, map[string]any{"name": "Ramesh", "phone": testPhone}, body["driver"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{
		"name": "Other", "phone": testPhone, "password": "secret1", "vehicleNumber": "X1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "token")

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{"phone": testPhone, "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	drv, _ := body["driver"].(map[string]any)
	assert.Equal(t, "OFFLINE", drv["status"])
	assert.NotContains(t, drv, "PasswordHash")

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{"phone": testPhone, "password": "nope1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid Password", body["message"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{"phone": "1111111111", "password": "secret1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["message"])
}

func TestUpdate_Auth(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, testPhone)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/update", "", map[string]string{"code": "14"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/update", "not-a-jwt", map[string]string{"code": "14"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdate_Flow(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, testPhone)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/update", token, map[string]string{"code": "14", "phone": "1111111111"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Updated: Library", body["message"])
	drv, _ := body["driver"].(map[string]any)
	assert.Equal(t, testPhone, drv["phone"])
	assert.Equal(t, "Library", drv["location"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/update", token, map[string]string{"code": "77"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid Code.", body["message"])

	var riders []map[string]any
	r, err := http.Get(srv.URL + "/api/riders")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(r.Body).Decode(&riders))
	r.Body.Close()
	require.Len(t, riders, 1)
	assert.Equal(t, "AVAILABLE", riders[0]["status"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/update", token, map[string]string{"code": "0"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "You are Offline.", body["message"])
	drv, _ = body["driver"].(map[string]any)
	assert.Nil(t, drv["location"])
}

func TestUpdate_TokenForDeletedPhone(t *testing.T) {
	// a token from another instance with the same secret, for a phone this store never saw
	other := newTestServer(t)
	token := register(t, other, "8888888888")

	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/update", token, map[string]string{"code": "14"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Driver not registered.", body["message"])
}

func TestSMS(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "8957766736")

	form := url.Values{"From": {"+91 89577 66736"}, "Body": {" 12 "}}
	resp, err := http.PostForm(srv.URL+"/api/sms", form)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Updated: Hall 5", body["message"])

	resp2, body := doJSON(t, http.MethodPost, srv.URL+"/api/sms", "", map[string]any{"address": 918957766736, "content": "9"})
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, "Status: Busy.", body["message"])

	resp2, body = doJSON(t, http.MethodPost, srv.URL+"/api/sms", "", map[string]any{"content": "9"})
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, map[string]any{"error": "Missing data"}, body)

	resp, err = http.Post(srv.URL+"/api/sms", "application/json", strings.NewReader("{oops"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, body = doJSON(t, http.MethodPost, srv.URL+"/api/sms", "", map[string]any{"from": "7777777777", "body": "0"})
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Driver not registered.", body["message"])
}

func TestLookupAndProfile(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, testPhone)
	otherToken := register(t, srv, "8888888888")

	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/driver/"+testPhone, "", nil)
	assert.Equal(t, true, body["exists"])

	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/driver/1234567890", "", nil)
	assert.Equal(t, map[string]any{"exists": false}, body)

	profile := map[string]string{"name": "Ramesh K", "vehicleType": "Rickshaw", "vehicleNumber": "UP78 ZZ 9"}

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/driver/profile", "", profile)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	withPhone := map[string]string{"phone": testPhone, "name": "Hijack", "vehicleNumber": "X"}
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/driver/profile", otherToken, withPhone)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/driver/profile", token, profile)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Profile Updated Successfully!", body["message"])
	drv, _ := body["driver"].(map[string]any)
	assert.Equal(t, "Ramesh K", drv["name"])
	assert.Equal(t, "Rickshaw", drv["vehicleType"])

	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/driver/"+testPhone, "", nil)
	drv, _ = body["driver"].(map[string]any)
	assert.Equal(t, "Ramesh K", drv["name"])
}

func TestCodesAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/codes")
	require.NoError(t, err)
	var codes []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&codes))
	resp.Body.Close()
	require.Len(t, codes, 8)
	assert.Equal(t, "0", codes[0]["code"])
	assert.Equal(t, "Main Gate", codes[2]["name"])

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDriverWebSocket(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, testPhone)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/driver"

	t.Run("rejects bad token", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(map[string]string{"type": "auth", "token": "garbage"}))
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "error", msg["type"])
		assert.Equal(t, "forbidden", msg["error_code"])
	})

	t.Run("status frames", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(map[string]string{"type": "auth", "token": token}))
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "auth_ok", msg["type"])

		require.NoError(t, conn.WriteJSON(map[string]string{"type": "status", "code": "15"}))
		msg = map[string]any{}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "status_ack", msg["type"])
		assert.Equal(t, true, msg["success"])
		assert.Equal(t, "Updated: Airstrip", msg["message"])

		require.NoError(t, conn.WriteJSON(map[string]string{"type": "status", "code": "x"}))
		msg = map[string]any{}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, false, msg["success"])
		assert.Equal(t, "Invalid Code.", msg["message"])

		require.NoError(t, conn.WriteJSON(map[string]string{"type": "hello"}))
		msg = map[string]any{}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "error", msg["type"])
		assert.Equal(t, "invalid_message", msg["error_code"])
	})
}

package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/lnwatch/phoenixd-dash/app/phoenixd"
	"github.com/lnwatch/phoenixd-dash/app/types"
)

func newUpstreamClient(t *testing.T, handler http.HandlerFunc) *phoenixd.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return phoenixd.NewClient(phoenixd.Config{URL: server.URL, Password: "test"})
}

func newJSONContext(method, target string, body []byte) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestHealthReturnsOk(t *testing.T) {
	controller := NewNodeController(nil)
	ctx, rec := newJSONContext(http.MethodGet, "/health", nil)

	if err := controller.Health(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var resp types.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Status != "ok" || resp.Timestamp == 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetInfoProxiesUpstream(t *testing.T) {
	client := newUpstreamClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getinfo" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"nodeId":"02abc","channels":[]}`))
	})
	controller := NewNodeController(client)
	ctx, rec := newJSONContext(http.MethodGet, "/api/node/info", nil)

	if err := controller.GetInfo(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var info phoenixd.NodeInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if info.NodeID != "02abc" {
		t.Fatalf("unexpected node id: %s", info.NodeID)
	}
}

func TestListChannelsAnswersEmptyArray(t *testing.T) {
	client := newUpstreamClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"nodeId":"02abc"}`))
	})
	controller := NewNodeController(client)
	ctx, rec := newJSONContext(http.MethodGet, "/api/node/channels", nil)

	if err := controller.ListChannels(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var channels []phoenixd.Channel
	if err := json.Unmarshal(rec.Body.Bytes(), &channels); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if channels == nil {
		t.Fatal("expected empty array, got null")
	}
}

func TestGetBalanceUpstreamFailure(t *testing.T) {
	client := newUpstreamClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	controller := NewNodeController(client)
	ctx, rec := newJSONContext(http.MethodGet, "/api/node/balance", nil)

	if err := controller.GetBalance(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestCloseChannelValidation(t *testing.T) {
	controller := NewNodeController(nil)
	body, _ := json.Marshal(&types.CloseChannelRequest{Address: "bc1q...", FeerateSatByte: 5})
	ctx, rec := newJSONContext(http.MethodPost, "/api/node/channels/close", body)

	if err := controller.CloseChannel(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestEstimateFeesRequiresAmount(t *testing.T) {
	controller := NewNodeController(nil)
	ctx, rec := newJSONContext(http.MethodGet, "/api/node/estimatefees", nil)

	if err := controller.EstimateFees(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

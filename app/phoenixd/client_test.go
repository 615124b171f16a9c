package phoenixd

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthHeader(t *testing.T) {
	client := NewClient(Config{URL: "http://localhost:9740", Password: "hunter2"})

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(":hunter2"))
	if got := client.AuthHeader(); got != want {
		t.Fatalf("unexpected auth header: got %s want %s", got, want)
	}
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://phoenixd:9740", "ws://phoenixd:9740/websocket"},
		{"https://phoenixd.example.com", "wss://phoenixd.example.com/websocket"},
		{"http://localhost:9740/", "ws://localhost:9740/websocket"},
	}

	for _, tt := range tests {
		client := NewClient(Config{URL: tt.url})
		if got := client.WebsocketURL(); got != tt.want {
			t.Fatalf("websocket url for %s: got %s want %s", tt.url, got, tt.want)
		}
	}
}

func TestGetInfoSendsAuthAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getinfo" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte(":secret"))
		if got := r.Header.Get("Authorization"); got != want {
			t.Errorf("unexpected auth header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"nodeId":"02abc","channels":[{"state":"NORMAL","channelId":"chan1","balanceSat":1000,"inboundLiquiditySat":500,"capacitySat":2000,"fundingTxId":"tx1"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Password: "secret"})
	info, err := client.GetInfo(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if info.NodeID != "02abc" {
		t.Fatalf("unexpected node id: %s", info.NodeID)
	}
	if len(info.Channels) != 1 || info.Channels[0].BalanceSat != 1000 {
		t.Fatalf("unexpected channels: %+v", info.Channels)
	}
}

func TestCreateInvoicePostsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/createinvoice" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type: %s", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form failed: %v", err)
		}
		if r.PostForm.Get("description") != "coffee" || r.PostForm.Get("amountSat") != "500" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		if r.PostForm.Has("descriptionHash") {
			t.Error("empty fields must be omitted")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amountSat":500,"paymentHash":"abc","serialized":"lnbc500n1..."}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	invoice, err := client.CreateInvoice(context.Background(), CreateInvoiceParams{
		Description: "coffee",
		AmountSat:   500,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if invoice.PaymentHash != "abc" || invoice.AmountSat != 500 {
		t.Fatalf("unexpected invoice: %+v", invoice)
	}
}

func TestPayInvoiceFailureReasonBecomesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// phoenixd answers 200 even when the payment failed
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reason":"no route found"}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	_, err := client.PayInvoice(context.Background(), "lnbc1...", 0)
	if err == nil {
		t.Fatal("expected error")
	}

	var payErr *PaymentError
	if !errors.As(err, &payErr) {
		t.Fatalf("expected PaymentError, got %T", err)
	}
	if payErr.Reason != "no route found" {
		t.Fatalf("unexpected reason: %s", payErr.Reason)
	}
}

func TestUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	_, err := client.GetBalance(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
}

func TestListIncomingPaymentsPassthrough(t *testing.T) {
	body := `[{"paymentHash":"abc","amountSat":500,"someFutureField":{"nested":true}}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/incoming" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "10" || r.URL.Query().Get("all") != "true" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	raw, err := client.ListIncomingPayments(context.Background(), ListPaymentsParams{Limit: 10, All: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(raw) != body {
		t.Fatalf("payload must pass through verbatim, got %s", raw)
	}
}

func TestGetLnAddressTrimsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("user@phoenixd.example.com\n"))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	address, err := client.GetLnAddress(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if address != "user@phoenixd.example.com" {
		t.Fatalf("unexpected address: %q", address)
	}
}

func TestIsAddressResolutionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&APIError{StatusCode: 400, Body: "could not connect to example.com"}, true},
		{&APIError{StatusCode: 400, Body: "cannot resolve example.com"}, true},
		{&APIError{StatusCode: 400, Body: "invalid invoice"}, false},
		{&PaymentError{Reason: "cannot resolve host"}, true},
		{&PaymentError{Reason: "no route found"}, false},
		{errors.New("dial tcp: connection refused"), false},
	}

	for _, tt := range tests {
		if got := isAddressResolutionError(tt.err); got != tt.want {
			t.Fatalf("isAddressResolutionError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestPayLnAddressDoesNotFallBackOnPaymentFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/paylnaddress" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reason":"insufficient balance"}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	_, err := client.PayLnAddressWithFallback(context.Background(), "user@example.com", 100, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("payment failures must not trigger lnurl fallback, got %d calls", calls)
	}
}

func TestResolveLnAddressInvoiceRejectsBadAddress(t *testing.T) {
	client := NewClient(Config{URL: "http://localhost:9740"})
	if _, err := client.resolveLnAddressInvoice(context.Background(), "not-an-address", 100, ""); err == nil {
		t.Fatal("expected error for address without @")
	}
}

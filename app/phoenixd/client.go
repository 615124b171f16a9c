package phoenixd

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type Config struct {
	URL         string
	Password    string
	HTTPTimeout time.Duration
}

type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// AuthHeader returns the Basic auth header phoenixd expects: an empty
// username and the API password.
func (c *Client) AuthHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(":"+c.cfg.Password))
}

// WebsocketURL returns the push-notification endpoint derived from the
// configured base URL with the scheme swapped to ws.
func (c *Client) WebsocketURL() string {
	return strings.Replace(c.cfg.URL, "http", "ws", 1) + "/websocket"
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("phoenixd api error: status=%d body=%s", e.StatusCode, e.Body)
}

// PaymentError reports a payment that phoenixd accepted with HTTP 200 but
// failed to complete.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return "payment failed: " + e.Reason
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	var body io.Reader
	if method == http.MethodPost && form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.URL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.AuthHeader())
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(payload)}
	}

	return payload, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	payload, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	payload, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(payload)), nil
}

func (c *Client) postJSON(ctx context.Context, path string, form url.Values, out interface{}) error {
	payload, err := c.do(ctx, http.MethodPost, path, form)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

func (c *Client) postText(ctx context.Context, path string, form url.Values) (string, error) {
	payload, err := c.do(ctx, http.MethodPost, path, form)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(payload)), nil
}

// Node management

type Channel struct {
	State               string `json:"state"`
	ChannelID           string `json:"channelId"`
	BalanceSat          int64  `json:"balanceSat"`
	InboundLiquiditySat int64  `json:"inboundLiquiditySat"`
	CapacitySat         int64  `json:"capacitySat"`
	FundingTxID         string `json:"fundingTxId"`
}

type NodeInfo struct {
	NodeID   string    `json:"nodeId"`
	Channels []Channel `json:"channels"`
}

type Balance struct {
	BalanceSat   int64 `json:"balanceSat"`
	FeeCreditSat int64 `json:"feeCreditSat"`
}

type LiquidityFees struct {
	MiningFeeSat  int64 `json:"miningFeeSat"`
	ServiceFeeSat int64 `json:"serviceFeeSat"`
}

func (c *Client) GetInfo(ctx context.Context) (*NodeInfo, error) {
	info := &NodeInfo{}
	if err := c.getJSON(ctx, "/getinfo", info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *Client) GetBalance(ctx context.Context) (*Balance, error) {
	balance := &Balance{}
	if err := c.getJSON(ctx, "/getbalance", balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// ListChannels reads channels from /getinfo; phoenixd's /listchannels returns
// a nested structure the dashboard does not need.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	info, err := c.GetInfo(ctx)
	if err != nil {
		return nil, err
	}
	return info.Channels, nil
}

type CloseChannelParams struct {
	ChannelID      string
	Address        string
	FeerateSatByte int64
}

func (c *Client) CloseChannel(ctx context.Context, params CloseChannelParams) (string, error) {
	form := url.Values{}
	form.Set("channelId", params.ChannelID)
	form.Set("address", params.Address)
	form.Set("feerateSatByte", strconv.FormatInt(params.FeerateSatByte, 10))
	return c.postText(ctx, "/closechannel", form)
}

func (c *Client) EstimateLiquidityFees(ctx context.Context, amountSat int64) (*LiquidityFees, error) {
	fees := &LiquidityFees{}
	if err := c.getJSON(ctx, "/estimateliquidityfees?amountSat="+strconv.FormatInt(amountSat, 10), fees); err != nil {
		return nil, err
	}
	return fees, nil
}

// Receiving

type CreateInvoiceParams struct {
	Description     string
	DescriptionHash string
	AmountSat       int64
	ExpirySeconds   int64
	ExternalID      string
	WebhookURL      string
}

type Invoice struct {
	AmountSat   int64  `json:"amountSat"`
	PaymentHash string `json:"paymentHash"`
	Serialized  string `json:"serialized"`
}

func (c *Client) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*Invoice, error) {
	form := url.Values{}
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	if params.DescriptionHash != "" {
		form.Set("descriptionHash", params.DescriptionHash)
	}
	if params.AmountSat > 0 {
		form.Set("amountSat", strconv.FormatInt(params.AmountSat, 10))
	}
	if params.ExpirySeconds > 0 {
		form.Set("expirySeconds", strconv.FormatInt(params.ExpirySeconds, 10))
	}
	if params.ExternalID != "" {
		form.Set("externalId", params.ExternalID)
	}
	if params.WebhookURL != "" {
		form.Set("webhookUrl", params.WebhookURL)
	}

	invoice := &Invoice{}
	if err := c.postJSON(ctx, "/createinvoice", form, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (c *Client) CreateOffer(ctx context.Context, description string, amountSat int64) (string, error) {
	form := url.Values{}
	if description != "" {
		form.Set("description", description)
	}
	if amountSat > 0 {
		form.Set("amountSat", strconv.FormatInt(amountSat, 10))
	}
	return c.postText(ctx, "/createoffer", form)
}

func (c *Client) GetLnAddress(ctx context.Context) (string, error) {
	return c.getText(ctx, "/getlnaddress")
}

// Sending

type PayResult struct {
	RecipientAmountSat int64  `json:"recipientAmountSat"`
	RoutingFeeSat      int64  `json:"routingFeeSat"`
	PaymentID          string `json:"paymentId"`
	PaymentHash        string `json:"paymentHash"`
	PaymentPreimage    string `json:"paymentPreimage"`

	// Reason is set when phoenixd reports a failed payment with HTTP 200.
	Reason string `json:"reason,omitempty"`
}

func (c *Client) payForm(ctx context.Context, path string, form url.Values) (*PayResult, error) {
	result := &PayResult{}
	if err := c.postJSON(ctx, path, form, result); err != nil {
		return nil, err
	}
	if result.Reason != "" {
		return nil, &PaymentError{Reason: result.Reason}
	}
	return result, nil
}

func (c *Client) PayInvoice(ctx context.Context, invoice string, amountSat int64) (*PayResult, error) {
	form := url.Values{}
	form.Set("invoice", invoice)
	if amountSat > 0 {
		form.Set("amountSat", strconv.FormatInt(amountSat, 10))
	}
	return c.payForm(ctx, "/payinvoice", form)
}

func (c *Client) PayOffer(ctx context.Context, offer string, amountSat int64, message string) (*PayResult, error) {
	form := url.Values{}
	form.Set("offer", offer)
	form.Set("amountSat", strconv.FormatInt(amountSat, 10))
	if message != "" {
		form.Set("message", message)
	}
	return c.payForm(ctx, "/payoffer", form)
}

func (c *Client) PayLnAddress(ctx context.Context, address string, amountSat int64, message string) (*PayResult, error) {
	form := url.Values{}
	form.Set("address", address)
	form.Set("amountSat", strconv.FormatInt(amountSat, 10))
	if message != "" {
		form.Set("message", message)
	}
	return c.payForm(ctx, "/paylnaddress", form)
}

type SendToAddressParams struct {
	Address        string
	AmountSat      int64
	FeerateSatByte int64
}

func (c *Client) SendToAddress(ctx context.Context, params SendToAddressParams) (string, error) {
	form := url.Values{}
	form.Set("address", params.Address)
	form.Set("amountSat", strconv.FormatInt(params.AmountSat, 10))
	form.Set("feerateSatByte", strconv.FormatInt(params.FeerateSatByte, 10))
	return c.postText(ctx, "/sendtoaddress", form)
}

func (c *Client) BumpFee(ctx context.Context, feerateSatByte int64) (string, error) {
	form := url.Values{}
	form.Set("feerateSatByte", strconv.FormatInt(feerateSatByte, 10))
	return c.postText(ctx, "/bumpfee", form)
}

// Payment history. Upstream payment objects are passed through verbatim, the
// dashboard does not depend on their shape.

type ListPaymentsParams struct {
	From       int64
	To         int64
	Limit      int32
	Offset     int32
	All        bool
	ExternalID string
}

func (p ListPaymentsParams) query() url.Values {
	q := url.Values{}
	if p.From > 0 {
		q.Set("from", strconv.FormatInt(p.From, 10))
	}
	if p.To > 0 {
		q.Set("to", strconv.FormatInt(p.To, 10))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.FormatInt(int64(p.Limit), 10))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.FormatInt(int64(p.Offset), 10))
	}
	if p.All {
		q.Set("all", "true")
	}
	if p.ExternalID != "" {
		q.Set("externalId", p.ExternalID)
	}
	return q
}

func (c *Client) listRaw(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	payload, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(payload), nil
}

func (c *Client) ListIncomingPayments(ctx context.Context, params ListPaymentsParams) (json.RawMessage, error) {
	return c.listRaw(ctx, "/payments/incoming", params.query())
}

func (c *Client) GetIncomingPayment(ctx context.Context, paymentHash string) (json.RawMessage, error) {
	return c.listRaw(ctx, "/payments/incoming/"+url.PathEscape(paymentHash), nil)
}

func (c *Client) ListOutgoingPayments(ctx context.Context, params ListPaymentsParams) (json.RawMessage, error) {
	return c.listRaw(ctx, "/payments/outgoing", params.query())
}

func (c *Client) GetOutgoingPayment(ctx context.Context, paymentID string) (json.RawMessage, error) {
	return c.listRaw(ctx, "/payments/outgoing/"+url.PathEscape(paymentID), nil)
}

func (c *Client) GetOutgoingPaymentByHash(ctx context.Context, paymentHash string) (json.RawMessage, error) {
	return c.listRaw(ctx, "/payments/outgoingbyhash/"+url.PathEscape(paymentHash), nil)
}

func (c *Client) ExportCsv(ctx context.Context, from, to int64) (string, error) {
	form := url.Values{}
	if from > 0 {
		form.Set("from", strconv.FormatInt(from, 10))
	}
	if to > 0 {
		form.Set("to", strconv.FormatInt(to, 10))
	}
	return c.postText(ctx, "/export", form)
}

// Decoding

type DecodedInvoice struct {
	Chain                   string `json:"chain"`
	Amount                  int64  `json:"amount"`
	PaymentHash             string `json:"paymentHash"`
	Description             string `json:"description"`
	MinFinalCltvExpiryDelta int64  `json:"minFinalCltvExpiryDelta"`
	PaymentSecret           string `json:"paymentSecret"`
	TimestampSeconds        int64  `json:"timestampSeconds"`
}

type DecodedOffer struct {
	Chain       string   `json:"chain"`
	ChainHashes []string `json:"chainHashes"`
}

func (c *Client) DecodeInvoice(ctx context.Context, invoice string) (*DecodedInvoice, error) {
	form := url.Values{}
	form.Set("invoice", invoice)

	decoded := &DecodedInvoice{}
	if err := c.postJSON(ctx, "/decodeinvoice", form, decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func (c *Client) DecodeOffer(ctx context.Context, offer string) (*DecodedOffer, error) {
	form := url.Values{}
	form.Set("offer", offer)

	decoded := &DecodedOffer{}
	if err := c.postJSON(ctx, "/decodeoffer", form, decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// LNURL

type LnurlWithdraw struct {
	URL             string `json:"url"`
	MinWithdrawable int64  `json:"minWithdrawable"`
	MaxWithdrawable int64  `json:"maxWithdrawable"`
	Description     string `json:"description"`
	K1              string `json:"k1"`
	Invoice         string `json:"invoice"`
}

func (c *Client) LnurlPay(ctx context.Context, lnurl string, amountSat int64, message string) (*PayResult, error) {
	form := url.Values{}
	form.Set("lnurl", lnurl)
	form.Set("amountSat", strconv.FormatInt(amountSat, 10))
	if message != "" {
		form.Set("message", message)
	}
	return c.payForm(ctx, "/lnurlpay", form)
}

func (c *Client) LnurlWithdrawRequest(ctx context.Context, lnurl string) (*LnurlWithdraw, error) {
	form := url.Values{}
	form.Set("lnurl", lnurl)

	result := &LnurlWithdraw{}
	if err := c.postJSON(ctx, "/lnurlwithdraw", form, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) LnurlAuth(ctx context.Context, lnurl string) (string, error) {
	form := url.Values{}
	form.Set("lnurl", lnurl)
	return c.postText(ctx, "/lnurlauth", form)
}

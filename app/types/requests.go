package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type CloseChannelRequest struct {
	ChannelID      string `json:"channelId"`
	Address        string `json:"address"`
	FeerateSatByte int64  `json:"feerateSatByte"`
}

func NewCloseChannelRequestFromContext(ctx echo.Context) (*CloseChannelRequest, error) {
	var body CloseChannelRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.ChannelID = strings.TrimSpace(body.ChannelID)
	body.Address = strings.TrimSpace(body.Address)
	return &body, nil
}

func (r *CloseChannelRequest) Validate() error {
	if r.ChannelID == "" {
		return errors.New("channelId is required")
	}
	if r.Address == "" {
		return errors.New("address is required")
	}
	if r.FeerateSatByte <= 0 {
		return errors.New("feerateSatByte must be > 0")
	}
	return nil
}

type EstimateFeesRequest struct {
	AmountSat int64
}

func NewEstimateFeesRequestFromContext(ctx echo.Context) (*EstimateFeesRequest, error) {
	raw := strings.TrimSpace(ctx.QueryParam("amountSat"))
	if raw == "" {
		return nil, errors.New("amountSat is required")
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("amountSat must be an integer")
	}
	return &EstimateFeesRequest{AmountSat: amount}, nil
}

func (r *EstimateFeesRequest) Validate() error {
	if r.AmountSat <= 0 {
		return errors.New("amountSat must be > 0")
	}
	return nil
}

type CreateInvoiceRequest struct {
	Description     string `json:"description"`
	DescriptionHash string `json:"descriptionHash"`
	AmountSat       int64  `json:"amountSat"`
	ExpirySeconds   int64  `json:"expirySeconds"`
	ExternalID      string `json:"externalId"`
	WebhookURL      string `json:"webhookUrl"`
}

func NewCreateInvoiceRequestFromContext(ctx echo.Context) (*CreateInvoiceRequest, error) {
	var body CreateInvoiceRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Description = strings.TrimSpace(body.Description)
	body.DescriptionHash = strings.TrimSpace(body.DescriptionHash)
	body.ExternalID = strings.TrimSpace(body.ExternalID)
	body.WebhookURL = strings.TrimSpace(body.WebhookURL)
	return &body, nil
}

func (r *CreateInvoiceRequest) Validate() error {
	if r.AmountSat < 0 {
		return errors.New("amountSat must be >= 0")
	}
	if r.ExpirySeconds < 0 {
		return errors.New("expirySeconds must be >= 0")
	}
	return nil
}

type CreateOfferRequest struct {
	Description string `json:"description"`
	AmountSat   int64  `json:"amountSat"`
}

func NewCreateOfferRequestFromContext(ctx echo.Context) (*CreateOfferRequest, error) {
	var body CreateOfferRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Description = strings.TrimSpace(body.Description)
	return &body, nil
}

func (r *CreateOfferRequest) Validate() error {
	if r.AmountSat < 0 {
		return errors.New("amountSat must be >= 0")
	}
	return nil
}

type PayInvoiceRequest struct {
	Invoice   string `json:"invoice"`
	AmountSat int64  `json:"amountSat"`
}

func NewPayInvoiceRequestFromContext(ctx echo.Context) (*PayInvoiceRequest, error) {
	var body PayInvoiceRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Invoice = strings.TrimSpace(body.Invoice)
	return &body, nil
}

func (r *PayInvoiceRequest) Validate() error {
	if r.Invoice == "" {
		return errors.New("invoice is required")
	}
	if r.AmountSat < 0 {
		return errors.New("amountSat must be >= 0")
	}
	return nil
}

type PayOfferRequest struct {
	Offer     string `json:"offer"`
	AmountSat int64  `json:"amountSat"`
	Message   string `json:"message"`
}

func NewPayOfferRequestFromContext(ctx echo.Context) (*PayOfferRequest, error) {
	var body PayOfferRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Offer = strings.TrimSpace(body.Offer)
	return &body, nil
}

func (r *PayOfferRequest) Validate() error {
	if r.Offer == "" {
		return errors.New("offer is required")
	}
	if r.AmountSat <= 0 {
		return errors.New("amountSat must be > 0")
	}
	return nil
}

type PayLnAddressRequest struct {
	Address   string `json:"address"`
	AmountSat int64  `json:"amountSat"`
	Message   string `json:"message"`
}

func NewPayLnAddressRequestFromContext(ctx echo.Context) (*PayLnAddressRequest, error) {
	var body PayLnAddressRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Address = strings.TrimSpace(body.Address)
	return &body, nil
}

func (r *PayLnAddressRequest) Validate() error {
	if r.Address == "" {
		return errors.New("address is required")
	}
	if !strings.Contains(r.Address, "@") {
		return errors.New("address must be a lightning address")
	}
	if r.AmountSat <= 0 {
		return errors.New("amountSat must be > 0")
	}
	return nil
}

type SendToAddressRequest struct {
	Address        string `json:"address"`
	AmountSat      int64  `json:"amountSat"`
	FeerateSatByte int64  `json:"feerateSatByte"`
}

func NewSendToAddressRequestFromContext(ctx echo.Context) (*SendToAddressRequest, error) {
	var body SendToAddressRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Address = strings.TrimSpace(body.Address)
	return &body, nil
}

func (r *SendToAddressRequest) Validate() error {
	if r.Address == "" {
		return errors.New("address is required")
	}
	if r.AmountSat <= 0 {
		return errors.New("amountSat must be > 0")
	}
	if r.FeerateSatByte <= 0 {
		return errors.New("feerateSatByte must be > 0")
	}
	return nil
}

type BumpFeeRequest struct {
	FeerateSatByte int64 `json:"feerateSatByte"`
}

func NewBumpFeeRequestFromContext(ctx echo.Context) (*BumpFeeRequest, error) {
	var body BumpFeeRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *BumpFeeRequest) Validate() error {
	if r.FeerateSatByte <= 0 {
		return errors.New("feerateSatByte must be > 0")
	}
	return nil
}

type DecodeInvoiceRequest struct {
	Invoice string `json:"invoice"`
}

func NewDecodeInvoiceRequestFromContext(ctx echo.Context) (*DecodeInvoiceRequest, error) {
	var body DecodeInvoiceRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Invoice = strings.TrimSpace(body.Invoice)
	return &body, nil
}

func (r *DecodeInvoiceRequest) Validate() error {
	if r.Invoice == "" {
		return errors.New("invoice is required")
	}
	return nil
}

type DecodeOfferRequest struct {
	Offer string `json:"offer"`
}

func NewDecodeOfferRequestFromContext(ctx echo.Context) (*DecodeOfferRequest, error) {
	var body DecodeOfferRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Offer = strings.TrimSpace(body.Offer)
	return &body, nil
}

func (r *DecodeOfferRequest) Validate() error {
	if r.Offer == "" {
		return errors.New("offer is required")
	}
	return nil
}

type ExportRequest struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

func NewExportRequestFromContext(ctx echo.Context) (*ExportRequest, error) {
	var body ExportRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *ExportRequest) Validate() error {
	if r.From < 0 || r.To < 0 {
		return errors.New("from and to must be >= 0")
	}
	return nil
}

type LnurlPayRequest struct {
	Lnurl     string `json:"lnurl"`
	AmountSat int64  `json:"amountSat"`
	Message   string `json:"message"`
}

func NewLnurlPayRequestFromContext(ctx echo.Context) (*LnurlPayRequest, error) {
	var body LnurlPayRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Lnurl = strings.TrimSpace(body.Lnurl)
	return &body, nil
}

func (r *LnurlPayRequest) Validate() error {
	if r.Lnurl == "" {
		return errors.New("lnurl is required")
	}
	if r.AmountSat <= 0 {
		return errors.New("amountSat must be > 0")
	}
	return nil
}

type LnurlRequest struct {
	Lnurl string `json:"lnurl"`
}

func NewLnurlRequestFromContext(ctx echo.Context) (*LnurlRequest, error) {
	var body LnurlRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Lnurl = strings.TrimSpace(body.Lnurl)
	return &body, nil
}

func (r *LnurlRequest) Validate() error {
	if r.Lnurl == "" {
		return errors.New("lnurl is required")
	}
	return nil
}

type ListPaymentsRequest struct {
	From       int64
	To         int64
	Limit      int32
	Offset     int32
	All        bool
	ExternalID string
}

func NewListPaymentsRequestFromContext(ctx echo.Context) (*ListPaymentsRequest, error) {
	req := &ListPaymentsRequest{
		All:        ctx.QueryParam("all") == "true",
		ExternalID: strings.TrimSpace(ctx.QueryParam("externalId")),
	}

	var err error
	if req.From, err = queryInt64(ctx, "from"); err != nil {
		return nil, err
	}
	if req.To, err = queryInt64(ctx, "to"); err != nil {
		return nil, err
	}

	limit, err := queryInt64(ctx, "limit")
	if err != nil {
		return nil, err
	}
	offset, err := queryInt64(ctx, "offset")
	if err != nil {
		return nil, err
	}
	req.Limit = int32(limit)
	req.Offset = int32(offset)

	return req, nil
}

func (r *ListPaymentsRequest) Validate() error {
	if r.From < 0 || r.To < 0 {
		return errors.New("from and to must be >= 0")
	}
	if r.Limit < 0 || r.Offset < 0 {
		return errors.New("limit and offset must be >= 0")
	}
	return nil
}

type ListPaymentLogRequest struct {
	PaymentHash string
	Limit       int32
	Offset      int32
}

func NewListPaymentLogRequestFromContext(ctx echo.Context) (*ListPaymentLogRequest, error) {
	req := &ListPaymentLogRequest{
		PaymentHash: strings.TrimSpace(ctx.QueryParam("paymentHash")),
	}

	limit, err := queryInt64(ctx, "limit")
	if err != nil {
		return nil, err
	}
	offset, err := queryInt64(ctx, "offset")
	if err != nil {
		return nil, err
	}
	req.Limit = int32(limit)
	req.Offset = int32(offset)

	if req.Limit <= 0 {
		req.Limit = 100
	}

	return req, nil
}

func (r *ListPaymentLogRequest) Validate() error {
	if r.Limit < 0 || r.Offset < 0 {
		return errors.New("limit and offset must be >= 0")
	}
	return nil
}

func queryInt64(ctx echo.Context, name string) (int64, error) {
	raw := strings.TrimSpace(ctx.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return value, nil
}

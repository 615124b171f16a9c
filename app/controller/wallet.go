package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lnwatch/phoenixd-dash/app/factory"
	"github.com/lnwatch/phoenixd-dash/app/phoenixd"
	"github.com/lnwatch/phoenixd-dash/app/types"
)

const defaultInvoiceDescription = "Phoenixd Dashboard Payment"

// WalletController proxies invoice, offer and on-chain operations.
type WalletController struct {
	client *phoenixd.Client
	logger logrus.FieldLogger
}

func NewWalletController(client *phoenixd.Client) *WalletController {
	return &WalletController{
		client: client,
		logger: factory.NewModuleLogger("wallet-controller"),
	}
}

func (c *WalletController) CreateInvoice(ctx echo.Context) error {
	req, err := types.NewCreateInvoiceRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	// phoenixd requires either a description or a description hash.
	description := req.Description
	if description == "" && req.DescriptionHash == "" {
		description = defaultInvoiceDescription
	}

	invoice, err := c.client.CreateInvoice(ctx.Request().Context(), phoenixd.CreateInvoiceParams{
		Description:     description,
		DescriptionHash: req.DescriptionHash,
		AmountSat:       req.AmountSat,
		ExpirySeconds:   req.ExpirySeconds,
		ExternalID:      req.ExternalID,
		WebhookURL:      req.WebhookURL,
	})
	if err != nil {
		return upstreamError(ctx, c.logger, "Create invoice", err)
	}

	return ctx.JSON(http.StatusOK, invoice)
}

func (c *WalletController) CreateOffer(ctx echo.Context) error {
	req, err := types.NewCreateOfferRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	offer, err := c.client.CreateOffer(ctx.Request().Context(), req.Description, req.AmountSat)
	if err != nil {
		return upstreamError(ctx, c.logger, "Create offer", err)
	}

	return ctx.JSON(http.StatusOK, &types.OfferResponse{Offer: offer})
}

func (c *WalletController) GetLnAddress(ctx echo.Context) error {
	address, err := c.client.GetLnAddress(ctx.Request().Context())
	if err != nil {
		return upstreamError(ctx, c.logger, "Get LN address", err)
	}
	return ctx.JSON(http.StatusOK, &types.LnAddressResponse{Address: address})
}

func (c *WalletController) PayInvoice(ctx echo.Context) error {
	req, err := types.NewPayInvoiceRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.client.PayInvoice(ctx.Request().Context(), req.Invoice, req.AmountSat)
	if err != nil {
		return upstreamError(ctx, c.logger, "Pay invoice", err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *WalletController) PayOffer(ctx echo.Context) error {
	req, err := types.NewPayOfferRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.client.PayOffer(ctx.Request().Context(), req.Offer, req.AmountSat, req.Message)
	if err != nil {
		return upstreamError(ctx, c.logger, "Pay offer", err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *WalletController) PayLnAddress(ctx echo.Context) error {
	req, err := types.NewPayLnAddressRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.client.PayLnAddressWithFallback(ctx.Request().Context(), req.Address, req.AmountSat, req.Message)
	if err != nil {
		return upstreamError(ctx, c.logger, "Pay LN address", err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *WalletController) SendToAddress(ctx echo.Context) error {
	req, err := types.NewSendToAddressRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	txID, err := c.client.SendToAddress(ctx.Request().Context(), phoenixd.SendToAddressParams{
		Address:        req.Address,
		AmountSat:      req.AmountSat,
		FeerateSatByte: req.FeerateSatByte,
	})
	if err != nil {
		return upstreamError(ctx, c.logger, "Send to address", err)
	}

	return ctx.JSON(http.StatusOK, &types.TxResponse{TxID: txID})
}

func (c *WalletController) BumpFee(ctx echo.Context) error {
	req, err := types.NewBumpFeeRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	txID, err := c.client.BumpFee(ctx.Request().Context(), req.FeerateSatByte)
	if err != nil {
		return upstreamError(ctx, c.logger, "Bump fee", err)
	}

	return ctx.JSON(http.StatusOK, &types.TxResponse{TxID: txID})
}

func (c *WalletController) DecodeInvoice(ctx echo.Context) error {
	req, err := types.NewDecodeInvoiceRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	decoded, err := c.client.DecodeInvoice(ctx.Request().Context(), req.Invoice)
	if err != nil {
		return upstreamError(ctx, c.logger, "Decode invoice", err)
	}

	return ctx.JSON(http.StatusOK, decoded)
}

func (c *WalletController) DecodeOffer(ctx echo.Context) error {
	req, err := types.NewDecodeOfferRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	decoded, err := c.client.DecodeOffer(ctx.Request().Context(), req.Offer)
	if err != nil {
		return upstreamError(ctx, c.logger, "Decode offer", err)
	}

	return ctx.JSON(http.StatusOK, decoded)
}

func (c *WalletController) Export(ctx echo.Context) error {
	req, err := types.NewExportRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	csv, err := c.client.ExportCsv(ctx.Request().Context(), req.From, req.To)
	if err != nil {
		return upstreamError(ctx, c.logger, "Export CSV", err)
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: csv})
}

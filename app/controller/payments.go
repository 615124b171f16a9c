package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lnwatch/phoenixd-dash/app/entity"
	"github.com/lnwatch/phoenixd-dash/app/factory"
	"github.com/lnwatch/phoenixd-dash/app/mapper"
	"github.com/lnwatch/phoenixd-dash/app/phoenixd"
	"github.com/lnwatch/phoenixd-dash/app/repository"
	"github.com/lnwatch/phoenixd-dash/app/types"
)

type paymentLogLister interface {
	List(ctx context.Context, filter repository.PaymentLogFilter) ([]*entity.PaymentLog, error)
}

type PaymentsController struct {
	client  *phoenixd.Client
	logRepo paymentLogLister
	logger  logrus.FieldLogger
}

func NewPaymentsController(client *phoenixd.Client, logRepo paymentLogLister) *PaymentsController {
	return &PaymentsController{
		client:  client,
		logRepo: logRepo,
		logger:  factory.NewModuleLogger("payments-controller"),
	}
}

func (c *PaymentsController) listParams(req *types.ListPaymentsRequest) phoenixd.ListPaymentsParams {
	return phoenixd.ListPaymentsParams{
		From:       req.From,
		To:         req.To,
		Limit:      req.Limit,
		Offset:     req.Offset,
		All:        req.All,
		ExternalID: req.ExternalID,
	}
}

func (c *PaymentsController) ListIncoming(ctx echo.Context) error {
	req, err := types.NewListPaymentsRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	raw, err := c.client.ListIncomingPayments(ctx.Request().Context(), c.listParams(req))
	if err != nil {
		return upstreamError(ctx, c.logger, "List incoming payments", err)
	}
	return ctx.JSONBlob(http.StatusOK, raw)
}

func (c *PaymentsController) GetIncoming(ctx echo.Context) error {
	paymentHash := strings.TrimSpace(ctx.Param("paymentHash"))
	if paymentHash == "" {
		return writeError(ctx, http.StatusBadRequest, "paymentHash is required")
	}

	raw, err := c.client.GetIncomingPayment(ctx.Request().Context(), paymentHash)
	if err != nil {
		return upstreamError(ctx, c.logger, "Get incoming payment", err)
	}
	return ctx.JSONBlob(http.StatusOK, raw)
}

func (c *PaymentsController) ListOutgoing(ctx echo.Context) error {
	req, err := types.NewListPaymentsRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	raw, err := c.client.ListOutgoingPayments(ctx.Request().Context(), c.listParams(req))
	if err != nil {
		return upstreamError(ctx, c.logger, "List outgoing payments", err)
	}
	return ctx.JSONBlob(http.StatusOK, raw)
}

func (c *PaymentsController) GetOutgoing(ctx echo.Context) error {
	paymentID := strings.TrimSpace(ctx.Param("paymentId"))
	if paymentID == "" {
		return writeError(ctx, http.StatusBadRequest, "paymentId is required")
	}

	raw, err := c.client.GetOutgoingPayment(ctx.Request().Context(), paymentID)
	if err != nil {
		return upstreamError(ctx, c.logger, "Get outgoing payment", err)
	}
	return ctx.JSONBlob(http.StatusOK, raw)
}

func (c *PaymentsController) GetOutgoingByHash(ctx echo.Context) error {
	paymentHash := strings.TrimSpace(ctx.Param("paymentHash"))
	if paymentHash == "" {
		return writeError(ctx, http.StatusBadRequest, "paymentHash is required")
	}

	raw, err := c.client.GetOutgoingPaymentByHash(ctx.Request().Context(), paymentHash)
	if err != nil {
		return upstreamError(ctx, c.logger, "Get outgoing payment by hash", err)
	}
	return ctx.JSONBlob(http.StatusOK, raw)
}

// ListLog serves the locally persisted incoming-payment log.
func (c *PaymentsController) ListLog(ctx echo.Context) error {
	req, err := types.NewListPaymentLogRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.logRepo.List(ctx.Request().Context(), repository.PaymentLogFilter{
		PaymentHash: req.PaymentHash,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		c.logger.WithError(err).Error("List payment log failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.PaymentLogListResponse{
		Payments: mapper.PaymentLogsToResponse(items),
	})
}

package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lnwatch/phoenixd-dash/app/factory"
	"github.com/lnwatch/phoenixd-dash/app/phoenixd"
	"github.com/lnwatch/phoenixd-dash/app/types"
)

type LnurlController struct {
	client *phoenixd.Client
	logger logrus.FieldLogger
}

func NewLnurlController(client *phoenixd.Client) *LnurlController {
	return &LnurlController{
		client: client,
		logger: factory.NewModuleLogger("lnurl-controller"),
	}
}

func (c *LnurlController) Pay(ctx echo.Context) error {
	req, err := types.NewLnurlPayRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.client.LnurlPay(ctx.Request().Context(), req.Lnurl, req.AmountSat, req.Message)
	if err != nil {
		return upstreamError(ctx, c.logger, "LNURL pay", err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *LnurlController) Withdraw(ctx echo.Context) error {
	req, err := types.NewLnurlRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.client.LnurlWithdrawRequest(ctx.Request().Context(), req.Lnurl)
	if err != nil {
		return upstreamError(ctx, c.logger, "LNURL withdraw", err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *LnurlController) Auth(ctx echo.Context) error {
	req, err := types.NewLnurlRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	message, err := c.client.LnurlAuth(ctx.Request().Context(), req.Lnurl)
	if err != nil {
		return upstreamError(ctx, c.logger, "LNURL auth", err)
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: message})
}

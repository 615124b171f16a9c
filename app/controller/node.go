package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lnwatch/phoenixd-dash/app/factory"
	"github.com/lnwatch/phoenixd-dash/app/phoenixd"
	"github.com/lnwatch/phoenixd-dash/app/types"
)

type NodeController struct {
	client *phoenixd.Client
	logger logrus.FieldLogger
}

func NewNodeController(client *phoenixd.Client) *NodeController {
	return &NodeController{
		client: client,
		logger: factory.NewModuleLogger("node-controller"),
	}
}

func (c *NodeController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UnixMilli(),
	})
}

func (c *NodeController) GetInfo(ctx echo.Context) error {
	info, err := c.client.GetInfo(ctx.Request().Context())
	if err != nil {
		return upstreamError(ctx, c.logger, "Get node info", err)
	}
	return ctx.JSON(http.StatusOK, info)
}

func (c *NodeController) GetBalance(ctx echo.Context) error {
	balance, err := c.client.GetBalance(ctx.Request().Context())
	if err != nil {
		return upstreamError(ctx, c.logger, "Get balance", err)
	}
	return ctx.JSON(http.StatusOK, balance)
}

func (c *NodeController) ListChannels(ctx echo.Context) error {
	channels, err := c.client.ListChannels(ctx.Request().Context())
	if err != nil {
		return upstreamError(ctx, c.logger, "List channels", err)
	}
	if channels == nil {
		channels = []phoenixd.Channel{}
	}
	return ctx.JSON(http.StatusOK, channels)
}

func (c *NodeController) CloseChannel(ctx echo.Context) error {
	req, err := types.NewCloseChannelRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	txID, err := c.client.CloseChannel(ctx.Request().Context(), phoenixd.CloseChannelParams{
		ChannelID:      req.ChannelID,
		Address:        req.Address,
		FeerateSatByte: req.FeerateSatByte,
	})
	if err != nil {
		return upstreamError(ctx, c.logger, "Close channel", err)
	}

	return ctx.JSON(http.StatusOK, &types.TxResponse{TxID: txID})
}

func (c *NodeController) EstimateFees(ctx echo.Context) error {
	req, err := types.NewEstimateFeesRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	fees, err := c.client.EstimateLiquidityFees(ctx.Request().Context(), req.AmountSat)
	if err != nil {
		return upstreamError(ctx, c.logger, "Estimate liquidity fees", err)
	}

	return ctx.JSON(http.StatusOK, fees)
}

package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lnwatch/phoenixd-dash/app/types"
)

func writeError(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, &types.ErrorResponse{Error: message})
}

// upstreamError logs a failed phoenixd call and answers 502. The dashboard is
// a local trust boundary, the upstream error text is passed through for the
// operator.
func upstreamError(ctx echo.Context, logger logrus.FieldLogger, op string, err error) error {
	logger.WithError(err).Error(op + " failed")
	return writeError(ctx, http.StatusBadGateway, err.Error())
}

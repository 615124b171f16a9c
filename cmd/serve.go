package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lnwatch/phoenixd-dash/app/controller"
	"github.com/lnwatch/phoenixd-dash/app/phoenixd"
	"github.com/lnwatch/phoenixd-dash/app/relay"
	"github.com/lnwatch/phoenixd-dash/app/repository"
	"github.com/lnwatch/phoenixd-dash/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard backend",
	Long:  "Start the HTTP server, the WebSocket relay, and the phoenixd event listener.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, deps, cleanup := mustCreateApp()
	defer cleanup()

	nodeController := controller.NewNodeController(deps.phoenixdClient)
	paymentsController := controller.NewPaymentsController(deps.phoenixdClient, deps.paymentLogRepo)
	walletController := controller.NewWalletController(deps.phoenixdClient)
	lnurlController := controller.NewLnurlController(deps.phoenixdClient)
	relayController := controller.NewRelayController(deps.hub)

	e := setupHTTPServer(nodeController, paymentsController, walletController, lnurlController, relayController)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	// Give phoenixd a moment to become reachable before subscribing to its
	// event stream.
	startupTimer := time.AfterFunc(cfg.Relay.StartupDelay, deps.listener.Connect)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	startupTimer.Stop()
	deps.listener.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(
	nodeController *controller.NodeController,
	paymentsController *controller.PaymentsController,
	walletController *controller.WalletController,
	lnurlController *controller.LnurlController,
	relayController *controller.RelayController,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/health", nodeController.Health)
	e.GET("/ws", relayController.Subscribe)

	api := e.Group("/api")

	node := api.Group("/node")
	node.GET("/info", nodeController.GetInfo)
	node.GET("/balance", nodeController.GetBalance)
	node.GET("/channels", nodeController.ListChannels)
	node.POST("/channels/close", nodeController.CloseChannel)
	node.GET("/estimatefees", nodeController.EstimateFees)

	payments := api.Group("/payments")
	payments.GET("/incoming", paymentsController.ListIncoming)
	payments.GET("/incoming/:paymentHash", paymentsController.GetIncoming)
	payments.GET("/outgoing", paymentsController.ListOutgoing)
	payments.GET("/outgoing/:paymentId", paymentsController.GetOutgoing)
	payments.GET("/outgoingbyhash/:paymentHash", paymentsController.GetOutgoingByHash)
	payments.GET("/log", paymentsController.ListLog)

	wallet := api.Group("/phoenixd")
	wallet.POST("/createinvoice", walletController.CreateInvoice)
	wallet.POST("/createoffer", walletController.CreateOffer)
	wallet.GET("/getlnaddress", walletController.GetLnAddress)
	wallet.POST("/payinvoice", walletController.PayInvoice)
	wallet.POST("/payoffer", walletController.PayOffer)
	wallet.POST("/paylnaddress", walletController.PayLnAddress)
	wallet.POST("/sendtoaddress", walletController.SendToAddress)
	wallet.POST("/bumpfee", walletController.BumpFee)
	wallet.POST("/decodeinvoice", walletController.DecodeInvoice)
	wallet.POST("/decodeoffer", walletController.DecodeOffer)
	wallet.POST("/export", walletController.Export)

	lnurl := api.Group("/lnurl")
	lnurl.POST("/pay", lnurlController.Pay)
	lnurl.POST("/withdraw", lnurlController.Withdraw)
	lnurl.POST("/auth", lnurlController.Auth)

	return e
}

type appDeps struct {
	phoenixdClient *phoenixd.Client
	paymentLogRepo *repository.PaymentLogRepository
	hub            *relay.Hub
	listener       *relay.Listener
}

func mustCreateApp() (*config.Config, *appDeps, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	paymentLogRepo := repository.NewPaymentLogRepository(db)

	phoenixdClient := phoenixd.NewClient(phoenixd.Config{
		URL:         cfg.Phoenixd.URL,
		Password:    cfg.Phoenixd.Password,
		HTTPTimeout: cfg.Phoenixd.HTTPTimeout,
	})

	hub := relay.NewHub()
	recorder := relay.NewRecorder(paymentLogRepo)
	listener := relay.NewListener(relay.ListenerConfig{
		URL:            phoenixdClient.WebsocketURL(),
		AuthHeader:     phoenixdClient.AuthHeader(),
		ReconnectDelay: cfg.Relay.ReconnectDelay,
	}, hub, recorder)

	deps := &appDeps{
		phoenixdClient: phoenixdClient,
		paymentLogRepo: paymentLogRepo,
		hub:            hub,
		listener:       listener,
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, deps, cleanup
}

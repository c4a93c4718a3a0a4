package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/valentine-rsvp/internal/aws"
	"github.com/imrishuroy/valentine-rsvp/internal/config"
	"github.com/imrishuroy/valentine-rsvp/internal/handlers"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore/backends"
	"github.com/imrishuroy/valentine-rsvp/internal/logging"
	"github.com/imrishuroy/valentine-rsvp/internal/responses"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(logging.Options{Level: cfg.LogLevel, Production: cfg.Production()})
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// AWS clients are only needed for the DynamoDB backend and the notification queue.
	var clients *aws.AWSClients
	if cfg.Store.Backend == config.BackendDynamoDB || cfg.QueueURL != "" {
		clients, err = aws.NewAWSClients(ctx)
		if err != nil {
			logger.Error("failed to init aws clients", "error", err)
			os.Exit(1)
		}
	}

	deps := backends.Deps{Logger: logger}
	if clients != nil {
		deps.DynamoDB = clients.DynamoDB
	}
	store, err := backends.Open(ctx, cfg.Store, deps)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	hcfg := handlers.HandlerConfig{
		Service:   responses.NewService(store, responses.WithLogger(logger)),
		AuthToken: cfg.AuthToken,
		BasePath:  cfg.BasePath,
		Logger:    logger,
	}
	if cfg.QueueURL != "" {
		hcfg.Publisher = aws.NewPublisher(clients.SQS, cfg.QueueURL)
	}
	if cfg.AuthToken == "" {
		logger.Warn("AUTH_TOKEN is not set, bearer authentication is disabled")
	}

	r := handlers.NewRouter(hcfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		if err := runLocal(cfg.Addr, r, logger); err != nil {
			logger.Error("failed to run local server", "error", err)
			_ = store.Close()
			os.Exit(1)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

// runLocal serves until SIGINT or SIGTERM so deferred cleanup (closing embedded stores) runs.
func runLocal(addr string, h http.Handler, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	logger.Info("running local server", "addr", ln.Addr().String())
	return serveLocal(ctx, ln, h, logger)
}

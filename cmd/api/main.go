package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/app"
	"github.com/chargemap/chargemap/backend-go/internal/config"
	"github.com/chargemap/chargemap/backend-go/internal/server"
)

type requestHandler interface {
	HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

var (
	lambdaStart = lambda.Start // Allow mocking of lambda.Start in tests
	setup       = setupRouter
	router      requestHandler
	setupErr    error
	setupOnce   sync.Once
)

// setupRouter runs once per cold start. Connections stay open for the
// lifetime of the execution environment.
func setupRouter(ctx context.Context) (requestHandler, error) {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.Open(ctx, cfg, config.GetCacheConfig())
	if err != nil {
		return nil, err
	}
	return server.NewLambdaAdapter(a.Engine), nil
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	setupOnce.Do(func() {
		router, setupErr = setup(ctx)
		if setupErr != nil {
			log.Error().Err(setupErr).Msg("Failed to initialize API")
		}
	})
	if setupErr != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"Internal server error"}`,
		}, nil
	}
	return router.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}

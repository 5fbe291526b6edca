package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"marketplace-api/internal/config"
	"marketplace-api/internal/handlers"
	"marketplace-api/pkg/lambda"
)

var fallbackLogger = config.NewFallbackLogger()

func handler(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		return handlers.UnavailableResponse(fallbackLogger, event, err), nil
	}

	router := handlers.NewRouter(container.Logger)
	handlers.ProductRoutes(router, handlers.NewProductHandler(container.ProductService, container.Logger))

	return handlers.APIGatewayHandler(router.Serve, container.Logger)(ctx, event)
}

func main() {
	awslambda.Start(handler)
}

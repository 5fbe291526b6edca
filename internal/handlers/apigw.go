package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"marketplace-api/pkg/lambda"
)

// FromAPIGateway converts an HTTP API (payload v2) event into a Request
func FromAPIGateway(event events.APIGatewayV2HTTPRequest) (*lambda.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded && event.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode request body: %w", err)
		}
		body = decoded
	}

	var claims map[string]string
	if event.RequestContext.Authorizer != nil && event.RequestContext.Authorizer.JWT != nil {
		claims = event.RequestContext.Authorizer.JWT.Claims
	}

	path := event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}

	headers := make(map[string]string, len(event.Headers))
	for k, v := range event.Headers {
		headers[strings.ToLower(k)] = v
	}

	return &lambda.Request{
		Method:      strings.ToUpper(event.RequestContext.HTTP.Method),
		Path:        path,
		Headers:     headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
		Claims:      claims,
		RequestID:   event.RequestContext.RequestID,
	}, nil
}

// ToAPIGateway converts a Response into an HTTP API (payload v2) response
func ToAPIGateway(resp *lambda.Response) events.APIGatewayV2HTTPResponse {
	headers := lambda.DefaultHeaders()
	for k, v := range resp.Headers {
		headers[k] = v
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       string(resp.Body),
	}
}

// APIGatewayHandler adapts a HandlerFunc to the Lambda runtime. Failures answered
// with a 500 are logged to logger; the response body stays generic.
func APIGatewayHandler(next lambda.HandlerFunc, logger *logrus.Logger) func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if logger == nil {
		logger = logrus.New()
	}
	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		req, err := FromAPIGateway(event)
		if err != nil {
			eventLogger(logger, event).WithError(err).Debug("Rejected request body")
			resp, _ := lambda.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload: body is not valid base64"})
			return ToAPIGateway(resp), nil
		}

		resp, err := next(ctx, req)
		if err != nil {
			eventLogger(logger, event).WithError(err).Error("Request handler failed")
			resp, _ = lambda.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		}
		return ToAPIGateway(resp), nil
	}
}

// UnavailableResponse answers event when the service could not be initialized
func UnavailableResponse(logger *logrus.Logger, event events.APIGatewayV2HTTPRequest, err error) events.APIGatewayV2HTTPResponse {
	eventLogger(logger, event).WithError(err).Error("Service initialization failed")
	resp, _ := lambda.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
	return ToAPIGateway(resp)
}

func eventLogger(logger *logrus.Logger, event events.APIGatewayV2HTTPRequest) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"request_id": event.RequestContext.RequestID,
		"method":     event.RequestContext.HTTP.Method,
		"path":       event.RawPath,
	})
}

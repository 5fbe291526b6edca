package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/middleware"
	"marketplace-api/pkg/lambda"
)

// maxBodyBytes bounds the request body read by the gin adapter
const maxBodyBytes = 10 << 20

// FromGin converts a gin request into a Request. Claims set by the
// authentication middleware are forwarded the way the API Gateway authorizer does.
func FromGin(c *gin.Context) (*lambda.Request, error) {
	var body []byte
	if c.Request.Body != nil {
		b, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}
		body = b
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k := range c.Request.Header {
		headers[strings.ToLower(k)] = c.Request.Header.Get(k)
	}

	query := map[string]string{}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	params := map[string]string{}
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}

	return &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  params,
		Claims:      middleware.ClaimsFromContext(c),
		RequestID:   c.GetString(middleware.RequestIDKey),
	}, nil
}

// GinHandler adapts a HandlerFunc to gin
func GinHandler(next lambda.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := FromGin(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload: unreadable request body"})
			return
		}

		resp, err := next(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
			return
		}

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		if len(resp.Body) == 0 {
			c.Status(resp.StatusCode)
			return
		}
		c.Data(resp.StatusCode, resp.Headers["Content-Type"], resp.Body)
	}
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"marketplace-api/pkg/lambda"
)

type route struct {
	method   string
	segments []string
	handler  lambda.HandlerFunc
}

// Router dispatches requests on method and path. A segment written as
// {name} matches any single path segment and is exposed as a path parameter.
type Router struct {
	routes []route
	logger *logrus.Logger
}

// NewRouter creates an empty router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{logger: logger}
}

// Handle registers handler for method and pattern
func (r *Router) Handle(method, pattern string, handler lambda.HandlerFunc) {
	r.routes = append(r.routes, route{
		method:   method,
		segments: splitPath(pattern),
		handler:  handler,
	})
}

// Serve dispatches req to the first matching route. Literal routes are
// registered before parameterised ones, so /brands/me wins over /brands/{id}.
func (r *Router) Serve(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	segments := splitPath(req.Path)
	pathMatched := false

	for _, rt := range r.routes {
		params, ok := match(rt.segments, segments)
		if !ok {
			continue
		}
		pathMatched = true
		if rt.method != req.Method {
			continue
		}

		if req.PathParams == nil {
			req.PathParams = map[string]string{}
		}
		for k, v := range params {
			if _, exists := req.PathParams[k]; !exists {
				req.PathParams[k] = v
			}
		}
		return rt.handler(ctx, req)
	}

	r.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.Path,
	}).Debug("No route matched")

	if pathMatched {
		return lambda.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	}
	return lambda.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found"})
}

func match(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			params[seg[1:len(seg)-1]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// BrandRoutes registers the brand endpoints on r
func BrandRoutes(r *Router, h *BrandHandler) {
	r.Handle(http.MethodPost, "/brands", h.HandleCreate)
	r.Handle(http.MethodGet, "/brands", h.HandleList)
	r.Handle(http.MethodGet, "/brands/me", h.HandleGetOwn)
	r.Handle(http.MethodGet, "/brands/{id}", h.HandleGet)
	r.Handle(http.MethodPut, "/brands/{id}", h.HandleUpdate)
	r.Handle(http.MethodDelete, "/brands/{id}", h.HandleDelete)
}

// ProductRoutes registers the product endpoints on r
func ProductRoutes(r *Router, h *ProductHandler) {
	r.Handle(http.MethodPost, "/products", h.HandleCreate)
	r.Handle(http.MethodGet, "/products", h.HandleList)
	r.Handle(http.MethodGet, "/products/{id}", h.HandleGet)
	r.Handle(http.MethodPut, "/products/{id}", h.HandleUpdate)
	r.Handle(http.MethodDelete, "/products/{id}", h.HandleDelete)
}

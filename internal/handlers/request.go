package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/repositories"
	"marketplace-api/pkg/lambda"
)

// identityFrom returns the caller identity or ErrUnauthorized
func identityFrom(req *lambda.Request) (auth.Identity, error) {
	identity, ok := auth.FromClaims(req.Claims)
	if !ok {
		return auth.Identity{}, fmt.Errorf("%w: missing subject claim", ErrUnauthorized)
	}
	return identity, nil
}

// payloadFrom decodes the request body as a single JSON object
func payloadFrom(req *lambda.Request, entity string) (repositories.Payload, error) {
	if len(bytes.TrimSpace(req.Body)) == 0 {
		return nil, repositories.PayloadError("decode", entity, "invalid payload: request body is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(req.Body))
	var payload repositories.Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, repositories.PayloadError("decode", entity, "invalid payload: body must be a JSON object")
	}
	if payload == nil {
		return nil, repositories.PayloadError("decode", entity, "invalid payload: body must be a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, repositories.PayloadError("decode", entity, "invalid payload: trailing data after JSON object")
	}
	return payload, nil
}

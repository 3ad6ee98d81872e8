package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	dErrors "a2admin/pkg/domain-errors"
)

// Normalizable request bodies trim and canonicalize their fields before
// validation.
type Normalizable interface {
	Normalize()
}

// Validatable request bodies check their own invariants.
type Validatable interface {
	Validate() error
}

// DecodeJSON reads exactly one JSON object from the body into T. On failure
// it writes a domain error naming what was wrong with the body and returns
// false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := decodeSingle(r.Body, &req); err != nil {
		logger.WarnContext(ctx, "rejected request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, err)
		return nil, false
	}
	return &req, true
}

func decodeSingle(body io.Reader, target any) error {
	if body == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body required")
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(target); err != nil {
		return bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return bodyError(err)
		}
		return dErrors.New(dErrors.CodeBadRequest, "request body must hold a single JSON object")
	}
	return nil
}

// bodyError maps decoder failures onto the console's error codes.
func bodyError(err error) error {
	var (
		tooLarge   *http.MaxBytesError
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		unexpected = errors.Is(err, io.ErrUnexpectedEOF)
	)
	switch {
	case errors.Is(err, io.EOF):
		return dErrors.New(dErrors.CodeBadRequest, "request body required")
	case errors.As(err, &tooLarge):
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	case errors.As(err, &syntaxErr), unexpected:
		return dErrors.New(dErrors.CodeBadRequest, "malformed JSON body")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("field %s must be of type %s", typeErr.Field, typeErr.Type))
	default:
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
}

// PrepareRequest normalizes then validates req. Plain validation errors
// become CodeValidation; domain errors keep their code.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	v, ok := req.(Validatable)
	if !ok {
		return nil
	}
	err := v.Validate()
	if err == nil {
		return nil
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return dErrors.New(dErrors.CodeValidation, err.Error())
}

// DecodeAndPrepare is DecodeJSON followed by PrepareRequest.
//
//	req, ok := httputil.DecodeAndPrepare[ManageTenantRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger, ctx, requestID)
	if !ok {
		return nil, false
	}
	if err := PrepareRequest(req); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

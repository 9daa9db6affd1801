// Package middleware provides the transport-neutral response boundary:
// wrapping handler results so only the payload is rewritten by marshalling,
// shaping validation failures for HTTP error channels, and writing negotiated
// responses. Framework-specific bindings belong in their own modules.
package middleware

import (
	"errors"
	"net/http"

	restmodel "github.com/reoring/restmodel"
)

// Result mirrors the (payload, status, headers) handler convention. Status 0
// is treated as 200 when written.
type Result struct {
	Data    any
	Status  int
	Headers map[string]string
}

// Handler is the handler shape the marshal boundary wraps.
type Handler func(r *http.Request) (Result, error)

// MarshalResult rewrites only the payload portion of a result; status and
// headers pass through unchanged.
func MarshalResult(schema restmodel.Schema, res Result, opts ...restmodel.MarshalOption) (Result, error) {
	out, err := restmodel.Marshal(res.Data, schema, opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Data: out, Status: res.Status, Headers: res.Headers}, nil
}

// MarshalWith wraps a handler so its payload is projected through schema.
func MarshalWith(schema restmodel.Schema, h Handler, opts ...restmodel.MarshalOption) Handler {
	return func(r *http.Request) (Result, error) {
		res, err := h(r)
		if err != nil {
			return res, err
		}
		return MarshalResult(schema, res, opts...)
	}
}

// MarshalFieldWith wraps a handler returning a bare value, applying a single
// descriptor instead of a schema.
func MarshalFieldWith(f restmodel.Field, h Handler, opts ...restmodel.MarshalOption) Handler {
	return func(r *http.Request) (Result, error) {
		res, err := h(r)
		if err != nil {
			return res, err
		}
		res.Data = restmodel.FormatValue(f, res.Data, opts...)
		return res, nil
	}
}

// ErrorPayload shapes a validation failure for the HTTP error channel.
func ErrorPayload(ve *restmodel.ValidationError) map[string]any {
	return map[string]any{"message": ve.Message, "errors": ve.Errors}
}

// WriteNegotiated selects a representation for the request's Accept header,
// renders the result and writes it. No acceptable representation writes 406;
// a misconfigured default writes 500.
func WriteNegotiated(w http.ResponseWriter, r *http.Request, reprs *restmodel.Representations, res Result) error {
	mediaType, err := reprs.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		var misconfigured *restmodel.RepresentationMisconfiguredError
		switch {
		case errors.As(err, &misconfigured):
			http.Error(w, "internal server error", http.StatusInternalServerError)
		case errors.Is(err, restmodel.ErrNotAcceptable):
			http.Error(w, "not acceptable", http.StatusNotAcceptable)
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return err
	}
	render, _ := reprs.Renderer(mediaType)
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	body, err := render(res.Data, status, res.Headers)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return err
	}
	for k, v := range res.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

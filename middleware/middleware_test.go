package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	restmodel "github.com/reoring/restmodel"
	"github.com/reoring/restmodel/fields"
	"github.com/reoring/restmodel/middleware"
)

func personSchema() *restmodel.FieldMap {
	return restmodel.NewFieldMap().
		Set("name", fields.String()).
		Set("age", fields.Integer())
}

func TestMarshalWith_RewritesPayloadOnly(t *testing.T) {
	h := middleware.MarshalWith(personSchema(), func(r *http.Request) (middleware.Result, error) {
		return middleware.Result{
			Data:    map[string]any{"name": "Ada", "age": 36, "secret": "drop me"},
			Status:  201,
			Headers: map[string]string{"X-Id": "7"},
		}, nil
	})

	res, err := h(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.Status != 201 || res.Headers["X-Id"] != "7" {
		t.Fatalf("status/headers not preserved: %+v", res)
	}
	om, ok := res.Data.(*restmodel.OrderedMap)
	if !ok {
		t.Fatalf("payload type = %T", res.Data)
	}
	if om.Has("secret") {
		t.Fatalf("undeclared field survived: %v", om.Keys())
	}
	if v, _ := om.Get("name"); v != "Ada" {
		t.Fatalf("name = %v", v)
	}
}

func TestMarshalFieldWith_AppliesSingleDescriptor(t *testing.T) {
	h := middleware.MarshalFieldWith(fields.String(), func(r *http.Request) (middleware.Result, error) {
		return middleware.Result{Data: 42}, nil
	})
	res, err := h(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.Data != "42" {
		t.Fatalf("data = %v", res.Data)
	}
}

func TestWriteNegotiated_JSON(t *testing.T) {
	reprs := restmodel.DefaultRepresentations()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")

	res := middleware.Result{
		Data:    restmodel.NewOrderedMap().Set("name", "Ada"),
		Headers: map[string]string{"X-Id": "7"},
	}
	if err := middleware.WriteNegotiated(rec, req, reprs, res); err != nil {
		t.Fatalf("WriteNegotiated: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != restmodel.MediaTypeJSON {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Header().Get("X-Id") != "7" {
		t.Fatalf("result header not written")
	}
	if got := rec.Body.String(); got != "{\"name\":\"Ada\"}\n" {
		t.Fatalf("body = %q", got)
	}
}

func TestWriteNegotiated_NotAcceptable(t *testing.T) {
	reprs := restmodel.DefaultRepresentations()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/plain")

	err := middleware.WriteNegotiated(rec, req, reprs, middleware.Result{Data: "x"})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if rec.Code != http.StatusNotAcceptable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWriteNegotiated_MisconfiguredDefaultIs500(t *testing.T) {
	reprs := restmodel.NewRepresentations().
		Register(restmodel.MediaTypeJSON, restmodel.JSONRenderer).
		SetDefault("application/vnd.missing")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	err := middleware.WriteNegotiated(rec, req, reprs, middleware.Result{Data: "x"})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestErrorPayload(t *testing.T) {
	ve := restmodel.NewValidationError(map[string]string{"name": "is missing"})
	payload := middleware.ErrorPayload(ve)
	if payload["message"] != "Input payload validation failed" {
		t.Fatalf("message = %v", payload["message"])
	}
	errs, ok := payload["errors"].(map[string]string)
	if !ok || errs["name"] == "" {
		t.Fatalf("errors = %v", payload["errors"])
	}
	if !strings.Contains(ve.Error(), "name") {
		t.Fatalf("summary = %q", ve.Error())
	}
}

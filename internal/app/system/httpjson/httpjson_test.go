package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/memberhub/memberhub/internal/app/system/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.Validation, http.StatusBadRequest},
		{apperr.Unauthenticated, http.StatusUnauthorized},
		{apperr.Forbidden, http.StatusForbidden},
		{apperr.NotFound, http.StatusNotFound},
		{apperr.Conflict, http.StatusConflict},
		{apperr.Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.kind); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestError_TypedFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, nil, apperr.New(apperr.Conflict, "email already subscribed"))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "email already subscribed" {
		t.Errorf("error message = %q", body.Error)
	}
}

func TestError_InternalDoesNotLeak(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, nil, errors.New("dial tcp 10.0.0.1:27017: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "27017") {
		t.Error("internal error details leaked into response body")
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme"}`))
		var p payload
		if err := Decode(httptest.NewRecorder(), r, &p); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if p.Name != "Acme" {
			t.Errorf("Name = %q", p.Name)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var p payload
		err := Decode(httptest.NewRecorder(), r, &p)
		if !apperr.IsKind(err, apperr.Validation) {
			t.Errorf("expected Validation failure, got %v", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
		var p payload
		err := Decode(httptest.NewRecorder(), r, &p)
		if !apperr.IsKind(err, apperr.Validation) {
			t.Errorf("expected Validation failure, got %v", err)
		}
	})
}

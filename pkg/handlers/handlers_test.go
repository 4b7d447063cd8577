package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/vigil/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{"200 with map", http.StatusOK, map[string]string{"key": "value"}, http.StatusOK},
		{"201 with struct", http.StatusCreated, struct{ ID int }{ID: 42}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type = %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, status := range []int{http.StatusBadRequest, http.StatusBadGateway} {
		rec := httptest.NewRecorder()
		handlers.RespondError(rec, logger, status, errors.New("invalid input"))

		if rec.Code != status {
			t.Errorf("status = %d, want %d", rec.Code, status)
		}

		var parsed map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if parsed["error"] != "invalid input" {
			t.Errorf("error = %s, want invalid input", parsed["error"])
		}
	}
}

func TestRespondBinary(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondBinary(rec, "audio/mpeg", []byte("ID3"))

	if rec.Header().Get("Content-Type") != "audio/mpeg" {
		t.Errorf("content-type = %s", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("Cache-Control") != "no-cache" {
		t.Errorf("cache-control = %s", rec.Header().Get("Cache-Control"))
	}
	if rec.Header().Get("Content-Length") != "3" {
		t.Errorf("content-length = %s", rec.Header().Get("Content-Length"))
	}
	if rec.Body.String() != "ID3" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Text string `json:"text"`
	}

	t.Run("valid", func(t *testing.T) {
		got, err := handlers.DecodeJSON[payload](strings.NewReader(`{"text":"hi"}`))
		if err != nil {
			t.Fatalf("DecodeJSON: %v", err)
		}
		if got.Text != "hi" {
			t.Errorf("text = %q", got.Text)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := handlers.DecodeJSON[payload](strings.NewReader(`{"text":`)); err == nil {
			t.Error("expected error for malformed body")
		}
	})
}

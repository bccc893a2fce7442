// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecoverer(t *testing.T) {
	panics := map[string]any{
		"string": "something went wrong",
		"int":    42,
		"reader": strings.NewReader("arbitrary non-string panic"),
	}

	for name, value := range panics {
		t.Run(name, func(t *testing.T) {
			handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(value)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/editor/commands", nil))

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("status: got %d, want 500", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var body map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != "Internal Server Error" {
				t.Errorf("error = %q", body["error"])
			}
		})
	}
}

func TestRecovererRepanicsAbortHandler(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want ErrAbortHandler", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRecovererNoPanic(t *testing.T) {
	var called bool
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Header().Set("X-Custom", "test-value")
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/fonts", nil))

	if !called {
		t.Error("next handler should have been called")
	}
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("got %d %q, want 200 \"ok\"", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Custom"); got != "test-value" {
		t.Errorf("X-Custom: got %q", got)
	}
}

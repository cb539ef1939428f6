package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int64)}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func terminalPost(t *testing.T, terminalID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/checkout/confirm", nil)
	return req.WithContext(WithTerminalID(req.Context(), terminalID))
}

func TestTerminalRateLimitBlocksOverLimit(t *testing.T) {
	limiter := newFakeLimiter()
	calls := 0
	handler := TerminalRateLimit(limiter, 2, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, terminalPost(t, "caja-1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, terminalPost(t, "caja-1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
}

func TestTerminalRateLimitScopesPerTerminal(t *testing.T) {
	limiter := newFakeLimiter()
	handler := TerminalRateLimit(limiter, 1, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, terminalPost(t, "caja-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, terminalPost(t, "caja-2"))
	if rec.Code != http.StatusOK {
		t.Fatalf("other terminal should not share the window, got %d", rec.Code)
	}
}

func TestTerminalRateLimitIgnoresReads(t *testing.T) {
	limiter := newFakeLimiter()
	handler := TerminalRateLimit(limiter, 1, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pos/cart", nil)
		req = req.WithContext(WithTerminalID(req.Context(), "caja-1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("read %d should pass, got %d", i+1, rec.Code)
		}
	}
	if len(limiter.counts) != 0 {
		t.Fatalf("reads must not touch the counter, got %v", limiter.counts)
	}
}

func TestTerminalRateLimitDisabledWithoutStore(t *testing.T) {
	handler := TerminalRateLimit(nil, 1, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, terminalPost(t, "caja-1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected passthrough without a store, got %d", rec.Code)
		}
	}
}
